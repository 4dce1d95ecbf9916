package auth

import (
	fsrepo "NoteKeeper/internal/cli/repo/fs"
)

// LoadToken читает сохранённый auth‑токен.
func LoadToken() (string, error) {
	return fsrepo.AuthFSStore{}.Load()
}

// SaveToken сохраняет auth‑токен.
func SaveToken(token string) error {
	return fsrepo.AuthFSStore{}.Save(token)
}

// ClearToken удаляет сохранённый auth‑токен.
func ClearToken() error {
	return fsrepo.AuthFSStore{}.Clear()
}
