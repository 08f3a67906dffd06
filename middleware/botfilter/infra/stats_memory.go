package infra

import (
	"context"
	"sync"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

type Counters struct {
	Allowed int64
	Blocked int64
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu       sync.Mutex
	total    Counters
	byReason map[domain.BlockReason]int64

	byAddress      map[string]Counters
	trackAddresses bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackAddresses(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackAddresses = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byReason:  make(map[domain.BlockReason]int64),
		byAddress: make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.DecisionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Allowed {
		s.total.Allowed++
		if s.trackAddresses {
			c := s.byAddress[ev.Address]
			c.Allowed++
			s.byAddress[ev.Address] = c
		}
		return nil
	}

	s.total.Blocked++
	s.byReason[ev.Reason]++
	if s.trackAddresses {
		c := s.byAddress[ev.Address]
		c.Blocked++
		s.byAddress[ev.Address] = c
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByReason() map[domain.BlockReason]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.BlockReason]int64, len(s.byReason))
	for k, v := range s.byReason {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByAddress() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byAddress))
	for k, v := range s.byAddress {
		out[k] = v
	}
	return out
}
