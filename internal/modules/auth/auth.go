// Package auth establishes who is calling. A Session is created from a signed
// token at the edge and handed explicitly to every service operation.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role classifies the actor for authorization decisions.
type Role string

const (
	RoleConsumer  Role = "consumer"
	RolePumpAdmin Role = "pump_admin"
)

func (r Role) Valid() bool { return r == RoleConsumer || r == RolePumpAdmin }

// Session is the authenticated actor for one request.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

func (s Session) IsConsumer() bool  { return s.Role == RoleConsumer }
func (s Session) IsPumpAdmin() bool { return s.Role == RolePumpAdmin }

// Account is the slice of a user record needed to check credentials.
type Account struct {
	ID           uuid.UUID
	PasswordHash string
	Role         Role
}

// AccountStore finds accounts by login email.
type AccountStore interface {
	AccountByEmail(ctx context.Context, email string) (Account, error)
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Session   Session   `json:"session"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// SessionFrom returns the session placed in ctx by Middleware.
func SessionFrom(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(Session)
	return sess, ok
}
