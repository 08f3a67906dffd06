package infra

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// ScoreStore implementa domain.ScoreStore guardando a pontuação como inteiro
// decimal em um KV. Cada Add regrava o total e renova o TTL inteiro: a
// pontuação expira de uma vez, não decai aos poucos.
type ScoreStore struct {
	kv     domain.KV
	prefix string
}

type ScoreStoreOption func(*ScoreStore)

func WithScorePrefix(prefix string) ScoreStoreOption {
	return func(s *ScoreStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewScoreStore(kv domain.KV, opts ...ScoreStoreOption) *ScoreStore {
	s := &ScoreStore{kv: kv, prefix: "botfilter"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ScoreStore) key(address string) string {
	return s.prefix + ":score:" + address
}

// Get retorna 0 quando não há pontuação registrada (ou o valor é ilegível).
func (s *ScoreStore) Get(ctx context.Context, address string) (int, error) {
	raw, ok, err := s.kv.Get(ctx, s.key(address))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, nil
	}
	return n, nil
}

func (s *ScoreStore) Add(ctx context.Context, address string, delta int, ttl time.Duration) (int, error) {
	cur, err := s.Get(ctx, address)
	if err != nil {
		return 0, err
	}

	next := cur + delta
	if err := s.kv.Put(ctx, s.key(address), strconv.Itoa(next), ttl); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *ScoreStore) Delete(ctx context.Context, address string) error {
	return s.kv.Delete(ctx, s.key(address))
}
