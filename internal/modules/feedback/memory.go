package feedback

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu      sync.RWMutex
	byOrder map[uuid.UUID]Feedback
}

func NewMemoryRepository() Repository {
	return &memoryRepo{byOrder: make(map[uuid.UUID]Feedback)}
}

func (r *memoryRepo) Create(_ context.Context, f *Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byOrder[f.OrderID]; ok {
		return fmt.Errorf("%w: feedback was already submitted for this order", apperr.ErrConflict)
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	r.byOrder[f.OrderID] = *f
	return nil
}

func (r *memoryRepo) ListByPump(_ context.Context, pumpID uuid.UUID, filter Filter) ([]*Feedback, error) {
	r.mu.RLock()
	var out []*Feedback
	for _, f := range r.byOrder {
		if f.PumpID == pumpID && f.Rating >= filter.MinRating {
			f := f
			out = append(out, &f)
		}
	}
	r.mu.RUnlock()

	newest := func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) }
	var less func(i, j int) bool
	switch filter.Sort {
	case SortOldest:
		less = func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) }
	case SortHighest:
		less = func(i, j int) bool {
			if out[i].Rating != out[j].Rating {
				return out[i].Rating > out[j].Rating
			}
			return newest(i, j)
		}
	case SortLowest:
		less = func(i, j int) bool {
			if out[i].Rating != out[j].Rating {
				return out[i].Rating < out[j].Rating
			}
			return newest(i, j)
		}
	default:
		less = newest
	}
	sort.SliceStable(out, less)
	return out, nil
}

func (r *memoryRepo) Summary(_ context.Context, pumpID uuid.UUID) (*Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &Summary{}
	total := 0
	for _, f := range r.byOrder {
		if f.PumpID == pumpID {
			s.Count++
			total += f.Rating
		}
	}
	if s.Count > 0 {
		s.Average = math.Round(float64(total)/float64(s.Count)*100) / 100
	}
	return s, nil
}
