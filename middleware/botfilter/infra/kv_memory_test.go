package infra

import (
	"context"
	"testing"
	"time"
)

func TestMemoryKV_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	if err := kv.Put(ctx, "k", "v", 0); err != nil {
		t.Fatalf("put error: %v", err)
	}

	val, ok, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !ok || val != "v" {
		t.Fatalf("expected (v, true), got (%q, %v)", val, ok)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be gone after delete")
	}
}

func TestMemoryKV_GetMissingIsNotAnError(t *testing.T) {
	val, ok, err := NewMemoryKV().Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("expected no error for missing key, got %v", err)
	}
	if ok || val != "" {
		t.Fatalf("expected miss, got (%q, %v)", val, ok)
	}
}

func TestMemoryKV_TTLExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	kv := NewMemoryKV(WithClock(func() time.Time { return now }))

	if err := kv.Put(ctx, "k", "v", 10*time.Second); err != nil {
		t.Fatalf("put error: %v", err)
	}

	// ainda dentro do TTL
	now = now.Add(9 * time.Second)
	if _, ok, _ := kv.Get(ctx, "k"); !ok {
		t.Fatalf("expected key to be alive at 9s")
	}

	// exatamente no limite: expirada
	now = now.Add(1 * time.Second)
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be expired at 10s")
	}
}

func TestMemoryKV_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	kv := NewMemoryKV(WithClock(func() time.Time { return now }))

	if err := kv.Put(ctx, "k", "v", 0); err != nil {
		t.Fatalf("put error: %v", err)
	}

	now = now.Add(1000 * time.Hour)
	if _, ok, _ := kv.Get(ctx, "k"); !ok {
		t.Fatalf("expected zero-ttl key to survive")
	}
}

func TestMemoryKV_SweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	kv := NewMemoryKV(WithClock(func() time.Time { return now }))

	_ = kv.Put(ctx, "a", "1", 5*time.Second)
	_ = kv.Put(ctx, "b", "2", 60*time.Second)

	now = now.Add(10 * time.Second)
	kv.Sweep()

	if got := kv.Len(); got != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d", got)
	}
	if _, ok, _ := kv.Get(ctx, "b"); !ok {
		t.Fatalf("expected b to survive the sweep")
	}
}
