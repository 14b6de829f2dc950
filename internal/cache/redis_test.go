package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// The Redis tests need a running Redis/Valkey server.
// Set REDIS_ADDRESS (e.g., "localhost:6379") to enable them.

func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("Skipping Redis tests: set REDIS_ADDRESS to enable")
	}
	return addr
}

func newTestRedisCache(t *testing.T, size int, ttl time.Duration, onEvict EvictCallback) Cache {
	t.Helper()
	addr := skipIfNoRedis(t)

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush Redis test DB: %v", err)
	}
	_ = client.Close()

	c, err := New("redis", ProviderConfig{
		Size:         size,
		TTL:          ttl,
		RedisAddress: addr,
		RedisDB:      15,
		OnEvict:      onEvict,
	})
	if err != nil {
		t.Fatalf("New redis cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisCache(t, 100, 10*time.Second, nil)

	if _, ok := c.Get(ctx, "https://api.tvmaze.com/search/shows?q=batman"); ok {
		t.Fatal("Expected miss for new key")
	}

	c.Set(ctx, "https://api.tvmaze.com/search/shows?q=batman", []byte("[]"))
	val, ok := c.Get(ctx, "https://api.tvmaze.com/search/shows?q=batman")
	if !ok || string(val) != "[]" {
		t.Fatalf("Expected hit with '[]', got %q (hit=%v)", string(val), ok)
	}
}

func TestRedisCache_Len(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisCache(t, 100, 10*time.Second, nil)

	if n := c.Len(ctx); n != 0 {
		t.Fatalf("Expected Len 0 on clean DB, got %d", n)
	}

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))

	if n := c.Len(ctx); n != 2 {
		t.Fatalf("Expected Len 2, got %d", n)
	}
}

func TestRedisCache_LRU_Eviction(t *testing.T) {
	ctx := context.Background()
	evicted := make([]string, 0)
	c := newTestRedisCache(t, 2, 10*time.Second, func(key string) {
		evicted = append(evicted, key)
	})

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	_, _ = c.Get(ctx, "a") // promote "a"
	c.Set(ctx, "c", []byte("3"))

	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatal("Expected 'b' to be evicted after 'a' was touched")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("Expected eviction of 'b', got %v", evicted)
	}
}

func TestRedisCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisCache(t, 10, 50*time.Millisecond, nil)

	c.Set(ctx, "k", []byte("v"))
	time.Sleep(150 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Expected entry to expire")
	}
	if n := c.Len(ctx); n != 0 {
		t.Fatalf("Expected Len 0 after expiry, got %d", n)
	}
}
