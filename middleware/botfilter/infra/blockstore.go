package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// BlockStore implementa domain.BlockStore serializando registros como JSON
// em um KV. A expiração do bloqueio é o TTL da própria chave.
type BlockStore struct {
	kv     domain.KV
	prefix string
}

type BlockStoreOption func(*BlockStore)

func WithBlockPrefix(prefix string) BlockStoreOption {
	return func(s *BlockStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewBlockStore(kv domain.KV, opts ...BlockStoreOption) *BlockStore {
	s := &BlockStore{kv: kv, prefix: "botfilter"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BlockStore) key(address string) string {
	return s.prefix + ":block:" + address
}

// Get retorna (nil, nil) quando não há bloqueio vigente para o endereço.
func (s *BlockStore) Get(ctx context.Context, address string) (*domain.BlockRecord, error) {
	raw, ok, err := s.kv.Get(ctx, s.key(address))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var rec domain.BlockRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode block record for %s: %w", address, err)
	}
	return &rec, nil
}

func (s *BlockStore) Put(ctx context.Context, address string, rec *domain.BlockRecord, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode block record for %s: %w", address, err)
	}
	return s.kv.Put(ctx, s.key(address), string(b), ttl)
}

func (s *BlockStore) Delete(ctx context.Context, address string) error {
	return s.kv.Delete(ctx, s.key(address))
}
