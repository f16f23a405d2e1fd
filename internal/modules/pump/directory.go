package pump

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/pkg/cache"
	"golang.org/x/sync/singleflight"
)

// directory is a cache-aside view of the public pump list. Concurrent
// misses collapse into one store read.
type directory struct {
	repo  Repository
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

func newDirectory(repo Repository, c cache.Cache, ttl time.Duration) *directory {
	return &directory{repo: repo, cache: c, ttl: ttl}
}

func (d *directory) key() string { return d.cache.Key("pumps", "directory") }

func (d *directory) list(ctx context.Context) ([]*Pump, error) {
	if pumps, ok := d.cached(ctx); ok {
		return pumps, nil
	}

	v, err, _ := d.group.Do(d.key(), func() (interface{}, error) {
		// Shared by every waiting caller, so one caller's cancellation
		// must not fail the others.
		ctx := context.WithoutCancel(ctx)
		if pumps, ok := d.cached(ctx); ok {
			return pumps, nil
		}
		pumps, err := d.repo.ListPumps(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(pumps); err == nil {
			if err := d.cache.Set(ctx, d.key(), string(raw), d.ttl); err != nil {
				slog.WarnContext(ctx, "pump directory cache write failed", "error", err)
			}
		}
		return pumps, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Pump), nil
}

// cached treats any cache failure as a miss.
func (d *directory) cached(ctx context.Context) ([]*Pump, bool) {
	raw, ok, err := d.cache.Get(ctx, d.key())
	if err != nil {
		slog.WarnContext(ctx, "pump directory cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var pumps []*Pump
	if err := json.Unmarshal([]byte(raw), &pumps); err != nil {
		return nil, false
	}
	return pumps, true
}

func (d *directory) invalidate(ctx context.Context) {
	if err := d.cache.Delete(ctx, d.key()); err != nil {
		slog.WarnContext(ctx, "pump directory cache invalidation failed", "error", err)
	}
}
