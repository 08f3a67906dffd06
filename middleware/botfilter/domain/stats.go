package domain

import (
	"context"
	"time"
)

// DecisionEvent representa o desfecho da inspeção de uma requisição.
//
// Propositalmente "agnóstico de HTTP": Address/Path são strings genéricas.
//
// Observação: cuidado com cardinalidade ao persistir Path sem controle; em
// uma base como Redis isso pode explodir o número de chaves.
type DecisionEvent struct {
	Address string
	Allowed bool

	// Reason fica vazio quando Allowed.
	Reason BlockReason

	Path string
	At   time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de decisão.
//
// O middleware trata gravação como best-effort: erro aqui nunca muda o
// desfecho de uma requisição.
type StatsStore interface {
	Record(ctx context.Context, ev DecisionEvent) error
}
