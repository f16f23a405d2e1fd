package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemorySetNX(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	key := c.Key("idem", "user-1", "abc")

	ok, err := c.SetNX(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX = %v, %v", ok, err)
	}
	ok, _ = c.SetNX(ctx, key, time.Minute)
	if ok {
		t.Fatal("second SetNX should report the key as taken")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	c := &memoryCache{items: make(map[string]item), now: func() time.Time { return now }}

	c.Set(ctx, "k", "v", time.Second)
	if v, ok, _ := c.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	now = now.Add(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected key to expire")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	c.Set(ctx, "a", "1", 0)
	c.Delete(ctx, "a", "missing")
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("expected a to be deleted")
	}
}

func TestKeyNamespace(t *testing.T) {
	if got := NewMemory().Key("pumps", "directory"); got != "fuelnow:pumps:directory" {
		t.Fatalf("Key = %q", got)
	}
}

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("FUELNOW_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisSetNX(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	c := NewRedis(client)
	key := c.Key("test", "setnx", time.Now().Format("150405.000000"))
	defer c.Delete(ctx, key)

	ok, err := c.SetNX(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX = %v, %v", ok, err)
	}
	ok, err = c.SetNX(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("second SetNX: %v", err)
	}
	if ok {
		t.Fatal("second SetNX should fail")
	}
}

func TestRedisGetMissing(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	c := NewRedis(client)
	_, ok, err := c.Get(context.Background(), c.Key("test", "definitely-missing"))
	if err != nil || ok {
		t.Fatalf("Get missing = %v, %v", ok, err)
	}
}
