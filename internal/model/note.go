package model

import "time"

// Note — текущая строка заметки. История живёт в note_versions.
// Password — опциональный пароль заметки; хранится как есть и сравнивается
// строгим равенством (см. service/guard.go). nil — заметка публичная.
type Note struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Password    *string

	UserID int64 `gorm:"not null;index"` // владелец, не меняется после создания
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Versions []NoteVersion `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Protected — установлен ли пароль заметки.
func (n *Note) Protected() bool {
	return n.Password != nil && *n.Password != ""
}
