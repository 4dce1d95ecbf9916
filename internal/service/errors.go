package service

import "errors"

// Ошибки бизнес-слоя. Хендлеры мапят их на HTTP-статусы через errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNoteNotFound    = errors.New("note not found")
	ErrVersionNotFound = errors.New("version not found for this note")
	ErrForbidden       = errors.New("not authorized to modify this note")
)
