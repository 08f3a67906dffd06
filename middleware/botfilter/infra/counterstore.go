package infra

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// counterGrace é a folga somada ao TTL de cada janela, para que uma janela
// recém encerrada continue legível enquanto requisições atrasadas chegam.
const counterGrace = 60 * time.Second

// CounterStore implementa domain.CounterStore com leitura e regravação sobre
// um KV. Não usa incremento atômico: sob corrida o contador subconta, o que é
// aceitável para um limite de admissão best-effort.
type CounterStore struct {
	kv     domain.KV
	prefix string
	now    func() time.Time
}

type CounterStoreOption func(*CounterStore)

func WithCounterPrefix(prefix string) CounterStoreOption {
	return func(s *CounterStore) { s.prefix = strings.Trim(prefix, ":") }
}

// WithCounterClock injeta o relógio usado no cálculo da janela (testes).
func WithCounterClock(now func() time.Time) CounterStoreOption {
	return func(s *CounterStore) { s.now = now }
}

func NewCounterStore(kv domain.KV, opts ...CounterStoreOption) *CounterStore {
	s := &CounterStore{kv: kv, prefix: "botfilter", now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IncrementAndGet soma 1 ao contador da janela fixa corrente e retorna o novo
// total. A identidade da janela é floor(unix/windowSeconds); virou a janela,
// o contador recomeça do zero e a chave anterior expira sozinha.
func (s *CounterStore) IncrementAndGet(ctx context.Context, address string, scope domain.CounterScope, windowSeconds int) (int, error) {
	if windowSeconds <= 0 {
		windowSeconds = 1
	}

	windowID := s.now().Unix() / int64(windowSeconds)
	key := s.prefix + ":count:" + string(scope) + ":" + address + ":" + strconv.FormatInt(windowID, 10)

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	cur := 0
	if ok {
		// valor ilegível reinicia a contagem da janela
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			cur = n
		}
	}

	next := cur + 1
	ttl := time.Duration(windowSeconds)*time.Second + counterGrace
	if err := s.kv.Put(ctx, key, strconv.Itoa(next), ttl); err != nil {
		return 0, err
	}
	return next, nil
}
