package model

import "time"

// User — учётная запись пользователя. Password хранит bcrypt-хеш.
type User struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Email    string `gorm:"not null;uniqueIndex"`
	Password string `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
