package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want %q", got, "value")
	}

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("missing key: got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired key: got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheGetReturnsCopy(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("abc"), 0); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 'X'

	fresh, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(fresh) != "abc" {
		t.Errorf("cached value mutated through Get result: %q", fresh)
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Error("deleted key still present")
	}
	// Deleting an absent key is fine.
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("second delete: %v", err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"b", "c"} {
		if _, err := c.Get(ctx, k); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("key %q survived Clear", k)
		}
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	// Double close is harmless.
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close: got %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close: got %v, want ErrCacheClosed", err)
	}
}

func TestFactoryFallsBackToMemory(t *testing.T) {
	// No Redis listening on this port; the factory must hand back a
	// working memory cache instead of failing.
	c := New(Config{
		Type:       "redis",
		RedisURL:   "redis://127.0.0.1:1/0",
		DefaultTTL: time.Minute,
	})
	t.Cleanup(func() { c.Close() })

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("expected memory fallback, got %T", c)
	}
}
