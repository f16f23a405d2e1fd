package pump

import (
	"context"

	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

// Repository defines the interface for pump data storage.
type Repository interface {
	CreatePump(ctx context.Context, p *Pump) error
	GetPumpByID(ctx context.Context, id uuid.UUID) (*Pump, error)
	GetPumpByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Pump, error)
	ListPumps(ctx context.Context) ([]*Pump, error)

	// NameTaken and HandleTaken back the registration pre-check. The
	// store's unique indexes remain the final word.
	NameTaken(ctx context.Context, name string) (bool, error)
	HandleTaken(ctx context.Context, handle string) (bool, error)

	UpdatePrices(ctx context.Context, id uuid.UUID, board pricing.PriceBoard) (*Pump, error)
}
