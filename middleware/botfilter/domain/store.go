package domain

import (
	"context"
	"errors"
	"time"
)

// Erros sentinela compartilhados entre as camadas.
var (
	// ErrStoreUnavailable indica que o armazenamento externo não foi
	// configurado. A API administrativa traduz para 500.
	ErrStoreUnavailable = errors.New("store not configured")

	// ErrInvalidAddress indica endereço de cliente sintaticamente inválido.
	ErrInvalidAddress = errors.New("invalid ip address")
)

// KV é o contrato mínimo exigido do armazenamento externo: chave-valor com
// TTL e consistência eventual. Implementações típicas: Redis, memória.
type KV interface {
	// Get retorna (valor, true, nil) quando a chave existe e não expirou.
	// Ausência não é erro: retorna ("", false, nil).
	Get(ctx context.Context, key string) (string, bool, error)

	// Put grava o valor. ttl <= 0 grava sem expiração.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete remove a chave; remover chave inexistente não é erro.
	Delete(ctx context.Context, key string) error
}

// CounterScope distingue as duas janelas de contagem do filtro.
type CounterScope string

const (
	ScopeWindow CounterScope = "window"
	ScopeBurst  CounterScope = "burst"
)

// BlockStore persiste registros de bloqueio por endereço.
type BlockStore interface {
	// Get retorna (nil, nil) quando não há bloqueio vigente.
	Get(ctx context.Context, address string) (*BlockRecord, error)
	Put(ctx context.Context, address string, rec *BlockRecord, ttl time.Duration) error
	Delete(ctx context.Context, address string) error
}

// CounterStore mantém contadores de janela fixa por endereço e escopo.
//
// IncrementAndGet lê o valor corrente da janela atual e grava valor+1,
// retornando o novo total. Leitura e escrita não são atômicas: sob corrida o
// contador pode subcontar, nunca sobrecontar.
type CounterStore interface {
	IncrementAndGet(ctx context.Context, address string, scope CounterScope, windowSeconds int) (int, error)
}

// ScoreStore mantém a pontuação heurística de bot por endereço.
type ScoreStore interface {
	// Get retorna 0 quando não há pontuação registrada.
	Get(ctx context.Context, address string) (int, error)

	// Add soma delta ao total e renova o TTL do total inteiro (a pontuação
	// expira de uma vez, não decai gradualmente). Retorna o novo total.
	Add(ctx context.Context, address string, delta int, ttl time.Duration) (int, error)

	Delete(ctx context.Context, address string) error
}
