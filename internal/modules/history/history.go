// Package history keeps an append-only journal of order status changes.
package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Entry records one status change. From is empty for the creating entry.
type Entry struct {
	OrderID   string    `json:"order_id"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	At        time.Time `json:"at"`
}

// Journal is the port the order service writes to. Implementations append
// and never rewrite.
type Journal interface {
	Append(ctx context.Context, e Entry) error
	// List returns an order's entries oldest first.
	List(ctx context.Context, orderID string) ([]Entry, error)
}

type memoryJournal struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewMemory returns a process-local Journal.
func NewMemory() Journal {
	return &memoryJournal{entries: make(map[string][]Entry)}
}

func (m *memoryJournal) Append(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.OrderID] = append(m.entries[e.OrderID], e)
	return nil
}

func (m *memoryJournal) List(_ context.Context, orderID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]Entry(nil), m.entries[orderID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}
