package user

import (
	"time"

	"github.com/google/uuid"
)

// User хранится ради привязки задач к владельцу и метаданных экспорта.
// Выдачей токенов занимается внешний сервис аутентификации.
type User struct {
	UUID         uuid.UUID `json:"uuid" db:"uuid"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
