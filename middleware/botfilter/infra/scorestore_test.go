package infra

import (
	"context"
	"testing"
	"time"
)

func TestScoreStore_MissingScoreIsZero(t *testing.T) {
	s := NewScoreStore(NewMemoryKV())

	got, err := s.Get(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for missing score, got %d", got)
	}
}

func TestScoreStore_AddAccumulates(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore(NewMemoryKV())

	if got, _ := s.Add(ctx, "1.2.3.4", 3, time.Hour); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got, _ := s.Add(ctx, "1.2.3.4", 2, time.Hour); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got, _ := s.Get(ctx, "1.2.3.4"); got != 5 {
		t.Fatalf("expected stored total 5, got %d", got)
	}
}

func TestScoreStore_AddRenewsTheWholeTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	kv := NewMemoryKV(WithClock(func() time.Time { return now }))
	s := NewScoreStore(kv)

	ttl := 100 * time.Second
	if _, err := s.Add(ctx, "1.2.3.4", 3, ttl); err != nil {
		t.Fatalf("add error: %v", err)
	}

	// segundo sinal perto do fim do TTL renova o total inteiro
	now = time.Unix(1090, 0)
	if got, _ := s.Add(ctx, "1.2.3.4", 2, ttl); got != 5 {
		t.Fatalf("expected 5 after renewal, got %d", got)
	}

	// 1090+100 = 1190; em 1150 o total ainda vive
	now = time.Unix(1150, 0)
	if got, _ := s.Get(ctx, "1.2.3.4"); got != 5 {
		t.Fatalf("expected score to survive until renewed ttl, got %d", got)
	}

	// expira de uma vez: não há decaimento parcial
	now = time.Unix(1190, 0)
	if got, _ := s.Get(ctx, "1.2.3.4"); got != 0 {
		t.Fatalf("expected score to expire to 0, got %d", got)
	}
}

func TestScoreStore_DeleteClearsScore(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore(NewMemoryKV())

	_, _ = s.Add(ctx, "1.2.3.4", 4, time.Hour)
	if err := s.Delete(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if got, _ := s.Get(ctx, "1.2.3.4"); got != 0 {
		t.Fatalf("expected 0 after delete, got %d", got)
	}
}
