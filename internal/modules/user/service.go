package user

import (
	"context"

	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/google/uuid"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// Register signs up a consumer.
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// CreateAccount stores a login for any role. Input must be validated by
	// the caller.
	CreateAccount(ctx context.Context, acct NewAccount) (*User, error)

	// DeleteAccount removes an account created by CreateAccount whose
	// registration could not be completed.
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	Me(ctx context.Context, sess auth.Session) (*User, error)

	// Get returns a profile to its owner, or to a pump admin the consumer
	// has ordered from.
	Get(ctx context.Context, sess auth.Session, id uuid.UUID) (*User, error)

	// Lookup reads a user without an authorization check. For use by other
	// services only.
	Lookup(ctx context.Context, id uuid.UUID) (*User, error)

	// SetBanned flags a consumer who ordered from the admin's pump.
	SetBanned(ctx context.Context, sess auth.Session, consumerID uuid.UUID, banned bool) (*User, error)
}
