package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()
	ctx := context.Background()

	type rec struct {
		Price float64 `json:"price"`
	}
	if err := mc.Set(ctx, Key("rec", "P1"), rec{Price: 4.2}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got rec
	if err := mc.Get(ctx, Key("rec", "P1"), &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 4.2 {
		t.Fatalf("price = %v, want 4.2", got.Price)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out string
	if err := mc.Get(context.Background(), "absent", &out); err != ErrCacheMiss {
		t.Fatalf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var out string
	if err := mc.Get(ctx, "k", &out); err != ErrCacheMiss {
		t.Fatalf("err = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "a", 1, time.Minute)
	time.Sleep(2 * time.Millisecond)
	mc.Set(ctx, "b", 2, time.Minute)

	var out int
	mc.Get(ctx, "b", &out) // touch b so a is the LRU entry
	time.Sleep(2 * time.Millisecond)
	mc.Set(ctx, "c", 3, time.Minute)

	if ok, _ := mc.Exists(ctx, "a"); ok {
		t.Fatal("a should have been evicted")
	}
	if ok, _ := mc.Exists(ctx, "b"); !ok {
		t.Fatal("b should survive")
	}
}
