package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthenticated)

type service struct {
	accounts AccountStore
	tokens   *Tokens
}

// NewService creates a new auth service.
func NewService(accounts AccountStore, tokens *Tokens) Service {
	return &service{accounts: accounts, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	acct, err := s.accounts.AccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}

	sess := Session{UserID: acct.ID, Role: acct.Role}
	token, exp, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Session: sess}, nil
}
