package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type payload struct {
	Name  string
	Score float64
}

func TestMemoryCacheSetGetString(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v" {
		t.Errorf("got %q", got)
	}
}

func TestMemoryCacheGetTypedStruct(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	stored := &payload{Name: "arima", Score: 1.5}
	if err := mc.Set(ctx, "result", stored, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var byValue payload
	if err := mc.Get(ctx, "result", &byValue); err != nil {
		t.Fatalf("Get into value: %v", err)
	}
	if byValue.Name != "arima" || byValue.Score != 1.5 {
		t.Errorf("got %+v", byValue)
	}

	var byPointer *payload
	if err := mc.Get(ctx, "result", &byPointer); err != nil {
		t.Fatalf("Get into pointer: %v", err)
	}
	if byPointer != stored {
		t.Errorf("pointer dest should receive the stored pointer")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	var got string
	if err := mc.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("error = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	ctx := context.Background()

	mc.Set(ctx, "a", "1", time.Minute)
	time.Sleep(time.Millisecond)
	mc.Set(ctx, "b", "2", time.Minute)
	time.Sleep(time.Millisecond)

	// Touch "a" so "b" becomes the least recently used entry.
	var v string
	if err := mc.Get(ctx, "a", &v); err != nil {
		t.Fatalf("Get a: %v", err)
	}
	time.Sleep(time.Millisecond)
	mc.Set(ctx, "c", "3", time.Minute)

	if ok, _ := mc.Exists(ctx, "b"); ok {
		t.Errorf("expected b to be evicted")
	}
	if ok, _ := mc.Exists(ctx, "a"); !ok {
		t.Errorf("expected a to survive")
	}
}

func TestMemoryCacheIncrement(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := mc.Increment(ctx, "counter")
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if got != want {
			t.Errorf("Increment = %d, want %d", got, want)
		}
	}
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryLock = %v, %v", ok, err)
	}
	if ok, _ := mc.TryLock(ctx, "lock", time.Minute); ok {
		t.Fatalf("second TryLock acquired a held lock")
	}
	if err := mc.Unlock(ctx, "lock"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if ok, _ := mc.TryLock(ctx, "lock", time.Minute); !ok {
		t.Fatalf("TryLock after Unlock failed")
	}
}
