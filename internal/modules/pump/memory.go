package pump

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

type memoryRepository struct {
	mu    sync.RWMutex
	pumps map[uuid.UUID]Pump
}

func NewMemoryRepository() Repository {
	return &memoryRepository{pumps: make(map[uuid.UUID]Pump)}
}

func (r *memoryRepository) CreatePump(_ context.Context, p *Pump) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pumps {
		switch {
		case strings.EqualFold(existing.Name, p.Name):
			return conflictFor("pumps_name_key")
		case existing.AdminHandle == p.AdminHandle:
			return conflictFor("pumps_admin_handle_key")
		case existing.OwnerID == p.OwnerID:
			return conflictFor("pumps_owner_id_key")
		}
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.pumps[p.ID] = *p
	return nil
}

func (r *memoryRepository) GetPumpByID(_ context.Context, id uuid.UUID) (*Pump, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pumps[id]
	if !ok {
		return nil, fmt.Errorf("pump %w", apperr.ErrNotFound)
	}
	return &p, nil
}

func (r *memoryRepository) GetPumpByOwnerID(_ context.Context, ownerID uuid.UUID) (*Pump, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pumps {
		if p.OwnerID == ownerID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("pump %w", apperr.ErrNotFound)
}

func (r *memoryRepository) ListPumps(_ context.Context) ([]*Pump, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Pump, 0, len(r.pumps))
	for _, p := range r.pumps {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepository) NameTaken(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pumps {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) HandleTaken(_ context.Context, handle string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pumps {
		if p.AdminHandle == handle {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) UpdatePrices(_ context.Context, id uuid.UUID, board pricing.PriceBoard) (*Pump, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pumps[id]
	if !ok {
		return nil, fmt.Errorf("pump %w", apperr.ErrNotFound)
	}
	p.PetrolPrice, p.DieselPrice = board.Petrol, board.Diesel
	p.UpdatedAt = time.Now().UTC()
	r.pumps[id] = p
	return &p, nil
}
