package infra

import (
	"context"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

type chanPool struct {
	sem chan struct{}
}

// NewChanPool cria um pool de vagas baseado em channel com capacidade max.
// Acquire devolve a vaga via release; release após ctx cancelado é seguro.
func NewChanPool(max int) domain.SlotPool {
	return &chanPool{sem: make(chan struct{}, max)}
}

func (p *chanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return nil, false
	}
}
