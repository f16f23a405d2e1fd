// Package feedback lets consumers rate delivered orders and pump admins read
// those ratings.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/order"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pump"
	"github.com/google/uuid"
)

const maxCommentLen = 1000

type Service interface {
	Submit(ctx context.Context, sess auth.Session, req SubmitRequest) (*Feedback, error)
	ListForPump(ctx context.Context, sess auth.Session, filter Filter) ([]*Feedback, error)
	Summary(ctx context.Context, pumpID uuid.UUID) (*Summary, error)
}

// OrderLookup reads an order on behalf of a session.
type OrderLookup interface {
	Get(ctx context.Context, sess auth.Session, id uuid.UUID) (*order.Order, error)
}

type PumpLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*pump.Pump, error)
	GetMine(ctx context.Context, sess auth.Session) (*pump.Pump, error)
}

type service struct {
	repo   Repository
	orders OrderLookup
	pumps  PumpLookup
}

func NewService(repo Repository, orders OrderLookup, pumps PumpLookup) Service {
	return &service{repo: repo, orders: orders, pumps: pumps}
}

func (s *service) Submit(ctx context.Context, sess auth.Session, req SubmitRequest) (*Feedback, error) {
	if !sess.IsConsumer() {
		return nil, fmt.Errorf("%w: only consumers leave feedback", apperr.ErrNotAuthorized)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrInvalidInput)
	}
	comment := strings.TrimSpace(req.Comment)
	if len([]rune(comment)) > maxCommentLen {
		return nil, fmt.Errorf("%w: comment is longer than %d characters", apperr.ErrInvalidInput, maxCommentLen)
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order %w", apperr.ErrNotFound)
	}

	o, err := s.orders.Get(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusDelivered {
		return nil, fmt.Errorf("%w: feedback needs a delivered order, this one is %s", apperr.ErrIllegalTransition, o.Status)
	}

	f := &Feedback{
		ID:         uuid.New(),
		OrderID:    o.ID,
		PumpID:     o.PumpID,
		ConsumerID: sess.UserID,
		Rating:     req.Rating,
		Comment:    comment,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "feedback submitted", "order_id", o.ID, "rating", f.Rating)
	return f, nil
}

func (s *service) ListForPump(ctx context.Context, sess auth.Session, filter Filter) ([]*Feedback, error) {
	if filter.MinRating < 0 || filter.MinRating > 5 {
		return nil, fmt.Errorf("%w: min rating must be between 0 and 5", apperr.ErrInvalidInput)
	}
	switch filter.Sort {
	case "", SortNewest, SortOldest, SortHighest, SortLowest:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", apperr.ErrInvalidInput, filter.Sort)
	}
	p, err := s.pumps.GetMine(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPump(ctx, p.ID, filter)
}

func (s *service) Summary(ctx context.Context, pumpID uuid.UUID) (*Summary, error) {
	if _, err := s.pumps.Get(ctx, pumpID); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, pumpID)
}
