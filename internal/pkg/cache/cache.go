package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the small key/value surface the modules need: read-through
// caching of the pump directory and idempotency keys for order submission.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores key only if it is absent and reports whether it did.
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	Key(parts ...string) string
}

const namespace = "fuelnow"

func joinKey(parts []string) string {
	return namespace + ":" + strings.Join(parts, ":")
}

type redisCache struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (r *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, 1, ttl).Result()
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCache) Key(parts ...string) string { return joinKey(parts) }

type item struct {
	value     string
	expiresAt time.Time
}

// memoryCache is used when no Redis address is configured and in tests.
type memoryCache struct {
	mu    sync.Mutex
	items map[string]item
	now   func() time.Time
}

func NewMemory() Cache {
	return &memoryCache{items: make(map[string]item), now: time.Now}
}

func (c *memoryCache) get(key string) (item, bool) {
	it, ok := c.items[key]
	if !ok {
		return item{}, false
	}
	if !it.expiresAt.IsZero() && c.now().After(it.expiresAt) {
		delete(c.items, key)
		return item{}, false
	}
	return it, true
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.get(key)
	return it.value, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = c.newItem(value, ttl)
	return nil
}

func (c *memoryCache) SetNX(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.get(key); ok {
		return false, nil
	}
	c.items[key] = c.newItem("1", ttl)
	return true, nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *memoryCache) Key(parts ...string) string { return joinKey(parts) }

func (c *memoryCache) newItem(value string, ttl time.Duration) item {
	it := item{value: value}
	if ttl > 0 {
		it.expiresAt = c.now().Add(ttl)
	}
	return it
}
