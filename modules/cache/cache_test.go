package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestCache connects to a local Redis and skips the test when none
// is running. Each test gets its own key prefix so runs never collide.
func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at localhost:6379: %v", err)
	}

	prefix := fmt.Sprintf("taskward-test:%s:%d:", t.Name(), time.Now().UnixNano())
	c := New(client, prefix, time.Minute)

	t.Cleanup(func() {
		_ = c.DeletePattern(context.Background(), "*")
		_ = c.Close()
	})

	return c
}

type statsPayload struct {
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

func TestCache_SetAndGet(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	stored := statsPayload{Total: 5, Counts: map[string]int64{"pending": 3, "completed": 2}}
	if err := c.Set(ctx, "stats:owner-1", stored); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var loaded statsPayload
	found, err := c.Get(ctx, "stats:owner-1", &loaded)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() should report a hit for a stored key")
	}
	if loaded.Total != 5 || loaded.Counts["pending"] != 3 {
		t.Errorf("loaded = %+v, want %+v", loaded, stored)
	}
}

func TestCache_GetMissing(t *testing.T) {
	c := setupTestCache(t)

	var out statsPayload
	found, err := c.Get(context.Background(), "stats:nobody", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() should report a miss for an absent key")
	}
}

func TestCache_Delete(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "stats:owner-1", statsPayload{Total: 1}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "stats:owner-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var out statsPayload
	found, err := c.Get(ctx, "stats:owner-1", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("key should be gone after Delete()")
	}

	if err := c.Delete(ctx, "stats:owner-1"); err != nil {
		t.Errorf("deleting an absent key should not error, got %v", err)
	}
}

func TestCache_DeletePattern(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	keys := []string{"stats:owner-1", "stats:owner-2", "profile:owner-1"}
	for _, key := range keys {
		if err := c.Set(ctx, key, statsPayload{Total: 1}); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	if err := c.DeletePattern(ctx, "stats:*"); err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}

	var out statsPayload
	for _, key := range []string{"stats:owner-1", "stats:owner-2"} {
		if found, _ := c.Get(ctx, key, &out); found {
			t.Errorf("key %s should be gone after DeletePattern", key)
		}
	}
	if found, _ := c.Get(ctx, "profile:owner-1", &out); !found {
		t.Error("keys outside the pattern must survive")
	}
}

func TestCache_HitMissCounters(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	var out statsPayload
	if _, err := c.Get(ctx, "stats:owner-1", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if err := c.Set(ctx, "stats:owner-1", statsPayload{Total: 1}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := c.Get(ctx, "stats:owner-1", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got := c.Misses(); got != 1 {
		t.Errorf("Misses() = %d, want 1", got)
	}
	if got := c.Hits(); got != 1 {
		t.Errorf("Hits() = %d, want 1", got)
	}
}
