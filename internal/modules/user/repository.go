package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user data storage.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// OrderHistory answers whether a consumer has ever ordered from the pump run
// by a given admin. The order module provides it.
type OrderHistory interface {
	HasOrderedFrom(ctx context.Context, consumerID, pumpAdminID uuid.UUID) (bool, error)
}
