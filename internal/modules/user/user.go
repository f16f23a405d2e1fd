package user

import (
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/google/uuid"
)

// User is an account holder: either a consumer who places orders or the
// admin of a pump.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	IsBanned     bool      `json:"is_banned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the consumer signup payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"trimmin=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"phone10"`
	Password string `json:"password" validate:"min=8"`
	Address  string `json:"address" validate:"trimmin=5"`
}

// NewAccount carries an already validated account for any role. Pump
// registration uses it to create the admin login.
type NewAccount struct {
	Email    string
	Password string
	Role     auth.Role
	Name     string
	Phone    string
	Address  string
}
