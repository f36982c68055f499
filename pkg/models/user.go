package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Admins may update or delete any project or
// review regardless of ownership.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}
