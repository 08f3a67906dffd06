package application

import (
	"context"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// SlotService concentra a regra de aquisição/liberação de vagas com timeout,
// sem saber nada sobre HTTP.
type SlotService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - AcquireTimeout <= 0: espera indefinidamente (até o ctx cancelar).
//   - AcquireTimeout > 0: espera até o timeout.
//
// Retorna (release, ok). Se ok=false, nenhuma vaga foi adquirida.
func (s SlotService) Acquire(ctx context.Context) (func(), bool) {
	if s.Pool == nil {
		return func() {}, true
	}

	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()
	return s.Pool.Acquire(acqCtx)
}
