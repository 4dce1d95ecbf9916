package model

import "time"

// NoteVersion — неизменяемый снимок заметки в журнале версий.
// Для каждой заметки номера версий строго растут без повторов —
// это закреплено составным уникальным индексом (note_id, version).
// Пароль заметки в снимок не входит.
type NoteVersion struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	NoteID string `gorm:"not null;uniqueIndex:idx_note_version;type:uuid"`

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Version     int64  `gorm:"not null;uniqueIndex:idx_note_version"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
