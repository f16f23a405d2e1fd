package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error

	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrdersByPump returns a pump's orders newest first, optionally
	// filtered by status.
	ListOrdersByPump(ctx context.Context, pumpID uuid.UUID, status Status) ([]*Order, error)

	// ListOrdersByConsumer returns a consumer's orders newest first.
	ListOrdersByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*Order, error)

	// UpdateStatus moves the order from one status to another in a single
	// conditional write. It returns apperr.ErrStaleState when the stored
	// status is no longer from, so of two racing updates only one commits.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Order, error)

	PumpStats(ctx context.Context, pumpID uuid.UUID) (*Stats, error)
	CustomersOfPump(ctx context.Context, pumpID uuid.UUID) ([]CustomerCount, error)
	HasOrdered(ctx context.Context, consumerID, pumpID uuid.UUID) (bool, error)
}
