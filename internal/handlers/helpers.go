package handlers

import (
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// userDTO — пользователь в ответах API, без хеша пароля.
type userDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// statusForError мапит ошибки бизнес-слоя на HTTP-статус и сообщение.
// Неопознанная ошибка — 500 с нейтральным текстом (детали только в лог).
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNoteNotFound):
		return http.StatusNotFound, "Note not found"
	case errors.Is(err, service.ErrVersionNotFound):
		return http.StatusNotFound, "Version not found for this note"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "User not authorized to modify this note"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, "Email already in use"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
