package infra

import (
	"context"
	"sync"
	"time"
)

// MemoryKV é uma implementação de domain.KV em memória com TTL.
// Útil para testes, desenvolvimento e para rodar o gateway sem Redis.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	now        func() time.Time
	sweepEvery time.Duration
}

type memoryEntry struct {
	value string
	// expiresAt zero significa sem expiração.
	expiresAt time.Time
}

type MemoryKVOption func(*MemoryKV)

// WithClock injeta o relógio usado para expiração (testes).
func WithClock(now func() time.Time) MemoryKVOption {
	return func(s *MemoryKV) { s.now = now }
}

func WithSweepEvery(d time.Duration) MemoryKVOption {
	return func(s *MemoryKV) { s.sweepEvery = d }
}

func NewMemoryKV(opts ...MemoryKVOption) *MemoryKV {
	s := &MemoryKV{
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
		sweepEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !ent.expiresAt.IsZero() && !s.now().Before(ent.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return ent.value, true, nil
}

func (s *MemoryKV) Put(_ context.Context, key, value string, ttl time.Duration) error {
	ent := memoryEntry{value: value}
	if ttl > 0 {
		ent.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ent
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len conta as entradas ainda não expiradas.
func (s *MemoryKV) Len() int {
	cutoff := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, ent := range s.entries {
		if ent.expiresAt.IsZero() || cutoff.Before(ent.expiresAt) {
			n++
		}
	}
	return n
}

// Keys devolve um snapshot das chaves não expiradas (ordem indefinida).
func (s *MemoryKV) Keys() []string {
	cutoff := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.entries))
	for k, ent := range s.entries {
		if ent.expiresAt.IsZero() || cutoff.Before(ent.expiresAt) {
			out = append(out, k)
		}
	}
	return out
}

// Sweep remove entradas expiradas.
func (s *MemoryKV) Sweep() {
	cutoff := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if !ent.expiresAt.IsZero() && !cutoff.Before(ent.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que varre entradas expiradas
// periodicamente. Pare cancelando o contexto.
func (s *MemoryKV) StartJanitor(ctx DoneContext) {
	if s.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(s.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem exigir
// um context completo de quem chama.
type DoneContext interface {
	Done() <-chan struct{}
}
