package pump

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/user"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/cache"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/validate"
	"github.com/google/uuid"
)

type Service interface {
	// Register creates the admin account and its pump. If the pump cannot
	// be stored the account is removed again.
	Register(ctx context.Context, req RegisterRequest) (*Registration, error)

	// UpdatePrices changes the prices of the caller's own pump. Orders
	// already placed keep the price they were placed at.
	UpdatePrices(ctx context.Context, sess auth.Session, req UpdatePricesRequest) (*Pump, error)

	Get(ctx context.Context, id uuid.UUID) (*Pump, error)
	GetMine(ctx context.Context, sess auth.Session) (*Pump, error)
	List(ctx context.Context) ([]*Pump, error)

	// PriceBoard satisfies pricing.BoardSource.
	PriceBoard(ctx context.Context, pumpID string) (pricing.PriceBoard, error)
}

type service struct {
	repo  Repository
	users user.Service
	dir   *directory
}

func NewService(repo Repository, users user.Service, c cache.Cache, directoryTTL time.Duration) Service {
	return &service{repo: repo, users: users, dir: newDirectory(repo, c, directoryTTL)}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Registration, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	petrol, err := pricing.ParsePrice("petrol", req.PetrolPrice)
	if err != nil {
		return nil, err
	}
	diesel, err := pricing.ParsePrice("diesel", req.DieselPrice)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.NameTaken(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: pump name is already taken", apperr.ErrConflict)
	}
	taken, err = s.repo.HandleTaken(ctx, req.AdminHandle)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: admin handle is already taken", apperr.ErrConflict)
	}

	admin, err := s.users.CreateAccount(ctx, user.NewAccount{
		Email:    req.Email,
		Password: req.Password,
		Role:     auth.RolePumpAdmin,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return nil, err
	}

	p := &Pump{
		ID:          uuid.New(),
		OwnerID:     admin.ID,
		Name:        req.Name,
		AdminHandle: req.AdminHandle,
		Address:     req.Address,
		PetrolPrice: petrol,
		DieselPrice: diesel,
	}
	if err := s.repo.CreatePump(ctx, p); err != nil {
		if derr := s.users.DeleteAccount(ctx, admin.ID); derr != nil {
			slog.ErrorContext(ctx, "could not remove admin account after failed pump insert",
				"user_id", admin.ID, "error", derr)
		}
		return nil, err
	}

	s.dir.invalidate(ctx)
	slog.InfoContext(ctx, "pump registered", "pump_id", p.ID, "handle", p.AdminHandle)
	return &Registration{Pump: p, Admin: admin}, nil
}

func (s *service) UpdatePrices(ctx context.Context, sess auth.Session, req UpdatePricesRequest) (*Pump, error) {
	if !sess.IsPumpAdmin() {
		return nil, fmt.Errorf("%w: only pump admins set prices", apperr.ErrNotAuthorized)
	}
	petrol, err := pricing.ParsePrice("petrol", req.PetrolPrice)
	if err != nil {
		return nil, err
	}
	diesel, err := pricing.ParsePrice("diesel", req.DieselPrice)
	if err != nil {
		return nil, err
	}

	mine, err := s.repo.GetPumpByOwnerID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.UpdatePrices(ctx, mine.ID, pricing.PriceBoard{Petrol: petrol, Diesel: diesel})
	if err != nil {
		return nil, err
	}
	s.dir.invalidate(ctx)
	slog.InfoContext(ctx, "pump prices updated", "pump_id", p.ID, "petrol", p.PetrolPrice, "diesel", p.DieselPrice)
	return p, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Pump, error) {
	return s.repo.GetPumpByID(ctx, id)
}

func (s *service) GetMine(ctx context.Context, sess auth.Session) (*Pump, error) {
	if !sess.IsPumpAdmin() {
		return nil, fmt.Errorf("%w: only pump admins own a pump", apperr.ErrNotAuthorized)
	}
	return s.repo.GetPumpByOwnerID(ctx, sess.UserID)
}

func (s *service) List(ctx context.Context) ([]*Pump, error) {
	return s.dir.list(ctx)
}

func (s *service) PriceBoard(ctx context.Context, pumpID string) (pricing.PriceBoard, error) {
	id, err := uuid.Parse(pumpID)
	if err != nil {
		return pricing.PriceBoard{}, fmt.Errorf("pump %w", apperr.ErrNotFound)
	}
	p, err := s.repo.GetPumpByID(ctx, id)
	if err != nil {
		return pricing.PriceBoard{}, err
	}
	return p.Board(), nil
}
