package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	config := &CacheConfig{
		Addr:         mr.Addr(),
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	cache := NewRedisCache(config)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}
	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}
	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestRedis(t)

	type entry struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}

	in := []entry{{Title: "Buy milk"}, {Title: "Walk dog", Completed: true}}
	if err := cache.Set("tasks:owner:abc", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out []entry
	if err := cache.Get("tasks:owner:abc", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(out) != 2 || out[0].Title != "Buy milk" || !out[1].Completed {
		t.Errorf("Unexpected cached value: %+v", out)
	}
}

func TestGetMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	var out []string
	err := cache.Get("missing-key", &out)
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	cache, _ := setupTestRedis(t)

	if err := cache.Set("key", "value", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var out string
	if err := cache.Get("key", &out); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestRedis(t)

	if err := cache.Set("key", "value", time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	var out string
	if err := cache.Get("key", &out); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	cache, mr := setupTestRedis(t)

	if err := cache.Health(); err != nil {
		t.Errorf("Expected healthy cache, got %v", err)
	}

	mr.Close()

	if err := cache.Health(); err == nil {
		t.Error("Expected health check failure after redis stopped")
	}
}
