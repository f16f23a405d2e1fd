package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/validate"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo    Repository
	history OrderHistory
	cost    int
}

// NewService creates a new user service.
func NewService(repo Repository, history OrderHistory) Service {
	return &service{repo: repo, history: history, cost: bcrypt.DefaultCost}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.CreateAccount(ctx, NewAccount{
		Email:    req.Email,
		Password: req.Password,
		Role:     auth.RoleConsumer,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
	})
}

func (s *service) CreateAccount(ctx context.Context, acct NewAccount) (*User, error) {
	if !acct.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, acct.Role)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(acct.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(acct.Email)),
		PasswordHash: string(hashedPassword),
		Role:         acct.Role,
		Name:         strings.TrimSpace(acct.Name),
		Phone:        acct.Phone,
		Address:      strings.TrimSpace(acct.Address),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "account created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *service) Me(ctx context.Context, sess auth.Session) (*User, error) {
	return s.repo.GetUserByID(ctx, sess.UserID)
}

func (s *service) Get(ctx context.Context, sess auth.Session, id uuid.UUID) (*User, error) {
	if id == sess.UserID {
		return s.Me(ctx, sess)
	}
	if err := s.checkCustomer(ctx, sess, id); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) Lookup(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) SetBanned(ctx context.Context, sess auth.Session, consumerID uuid.UUID, banned bool) (*User, error) {
	if err := s.checkCustomer(ctx, sess, consumerID); err != nil {
		return nil, err
	}
	target, err := s.repo.GetUserByID(ctx, consumerID)
	if err != nil {
		return nil, err
	}
	if target.Role != auth.RoleConsumer {
		return nil, fmt.Errorf("%w: only consumers can be banned", apperr.ErrNotAuthorized)
	}
	if err := s.repo.SetBanned(ctx, consumerID, banned); err != nil {
		return nil, err
	}
	target.IsBanned = banned
	slog.InfoContext(ctx, "consumer ban updated", "consumer_id", consumerID, "banned", banned, "by", sess.UserID)
	return target, nil
}

// checkCustomer passes when sess is a pump admin and consumerID has ordered
// from that admin's pump.
func (s *service) checkCustomer(ctx context.Context, sess auth.Session, consumerID uuid.UUID) error {
	if !sess.IsPumpAdmin() || s.history == nil {
		return fmt.Errorf("%w: not your profile", apperr.ErrNotAuthorized)
	}
	ok, err := s.history.HasOrderedFrom(ctx, consumerID, sess.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: consumer has not ordered from your pump", apperr.ErrNotAuthorized)
	}
	return nil
}

// Accounts adapts a Repository to auth.AccountStore.
type Accounts struct{ Repo Repository }

func (a Accounts) AccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	u, err := a.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return auth.Account{}, err
	}
	return auth.Account{ID: u.ID, PasswordHash: u.PasswordHash, Role: u.Role}, nil
}
