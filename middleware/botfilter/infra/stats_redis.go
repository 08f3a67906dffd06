package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava contadores de decisão em hashes do Redis.
//
// Escreve sempre no hash cumulativo <prefix>:total e, com bucket "minute",
// também em séries por minuto com TTL. O campo incrementado é "allowed" ou
// "blocked:<motivo>".
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por endereço.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackAddresses bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

// WithStatsTrackAddresses liga contadores por endereço. Cuidado com
// cardinalidade: uma chave por endereço observado.
func WithStatsTrackAddresses(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackAddresses = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "botfilter:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.DecisionEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "allowed"
	if !ev.Allowed {
		field = "blocked"
		if ev.Reason != "" {
			field = "blocked:" + string(ev.Reason)
		}
	}

	totalKey := s.prefix + ":total"

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackAddresses {
		addr := strings.TrimSpace(ev.Address)
		if addr != "" {
			addrKey := s.prefix + ":addr:" + addr
			pipe.HIncrBy(ctx, addrKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, addrKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
