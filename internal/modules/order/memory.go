package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memoryRow struct {
	order Order
	seq   int
}

type memoryRepo struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*memoryRow
	seq  int
	now  func() time.Time
}

// NewMemoryRepository returns a process-local Repository. UpdateStatus holds
// the write lock across the compare and the swap.
func NewMemoryRepository() Repository {
	return &memoryRepo{rows: make(map[uuid.UUID]*memoryRow), now: time.Now}
}

func (r *memoryRepo) CreateOrder(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[o.ID]; ok {
		return fmt.Errorf("order: %w: duplicate id %s", apperr.ErrConflict, o.ID)
	}
	r.seq++
	r.rows[o.ID] = &memoryRow{order: *o, seq: r.seq}
	return nil
}

func (r *memoryRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("order %w", apperr.ErrNotFound)
	}
	o := row.order
	return &o, nil
}

func (r *memoryRepo) ListOrdersByPump(_ context.Context, pumpID uuid.UUID, status Status) ([]*Order, error) {
	return r.filter(func(o *Order) bool {
		return o.PumpID == pumpID && (status == "" || o.Status == status)
	}), nil
}

func (r *memoryRepo) ListOrdersByConsumer(_ context.Context, consumerID uuid.UUID) ([]*Order, error) {
	return r.filter(func(o *Order) bool { return o.ConsumerID == consumerID }), nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("order %w", apperr.ErrNotFound)
	}
	if row.order.Status != from {
		return nil, fmt.Errorf("%w: order %s is no longer %s", apperr.ErrStaleState, id, from)
	}
	row.order.Status = to
	row.order.UpdatedAt = r.now().UTC()
	o := row.order
	return &o, nil
}

func (r *memoryRepo) PumpStats(_ context.Context, pumpID uuid.UUID) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &Stats{Revenue: decimal.Zero}
	for _, row := range r.rows {
		o := row.order
		if o.PumpID != pumpID {
			continue
		}
		s.Total++
		switch o.Status {
		case StatusPending:
			s.Pending++
		case StatusAccepted, StatusEnRoute:
			s.Active++
		case StatusDelivered:
			s.Delivered++
			s.Revenue = s.Revenue.Add(o.TotalAmount)
		case StatusDeclined, StatusCancelled:
			s.Closed++
		}
	}
	return s, nil
}

func (r *memoryRepo) CustomersOfPump(_ context.Context, pumpID uuid.UUID) ([]CustomerCount, error) {
	byConsumer := map[uuid.UUID]*CustomerCount{}
	for _, o := range r.filter(func(o *Order) bool { return o.PumpID == pumpID }) {
		c, ok := byConsumer[o.ConsumerID]
		if !ok {
			c = &CustomerCount{ConsumerID: o.ConsumerID}
			byConsumer[o.ConsumerID] = c
		}
		c.Orders++
		if o.CreatedAt.After(c.LastOrderAt) {
			c.LastOrderAt = o.CreatedAt
		}
	}
	out := make([]CustomerCount, 0, len(byConsumer))
	for _, c := range byConsumer {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastOrderAt.After(out[j].LastOrderAt) })
	return out, nil
}

func (r *memoryRepo) HasOrdered(_ context.Context, consumerID, pumpID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.order.ConsumerID == consumerID && row.order.PumpID == pumpID {
			return true, nil
		}
	}
	return false, nil
}

// filter returns copies of matching orders, newest first.
func (r *memoryRepo) filter(keep func(*Order) bool) []*Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []*memoryRow
	for _, row := range r.rows {
		if keep(&row.order) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].order.CreatedAt.Equal(rows[j].order.CreatedAt) {
			return rows[i].order.CreatedAt.After(rows[j].order.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*Order, len(rows))
	for i, row := range rows {
		o := row.order
		out[i] = &o
	}
	return out
}
