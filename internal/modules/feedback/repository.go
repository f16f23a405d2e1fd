package feedback

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create fails with apperr.ErrConflict if the order already has feedback.
	Create(ctx context.Context, f *Feedback) error
	ListByPump(ctx context.Context, pumpID uuid.UUID, filter Filter) ([]*Feedback, error)
	Summary(ctx context.Context, pumpID uuid.UUID) (*Summary, error)
}
