package application

import (
	"context"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"

	"go.uber.org/zap"
)

// Request é o recorte da requisição que o motor inspeciona.
type Request struct {
	Address   string
	Path      string
	UserAgent string
}

// Outcome é o desfecho da inspeção.
type Outcome struct {
	Allowed bool

	// Record do bloqueio aplicado ou pré-existente; nil quando Allowed.
	Record *domain.BlockRecord
}

// Engine executa a sequência de inspeção de uma requisição já identificada:
//
//  1. bloqueio vigente
//  2. escopo de proteção do caminho
//  3. janela sustentada
//  4. janela de rajada (só depois da sustentada passar)
//  5. pontuação heurística de bot
//
// Qualquer erro de armazenamento no caminho é registrado e vira passagem
// liberada (fail-open): indisponibilidade do KV não derruba tráfego.
type Engine struct {
	Settings domain.Settings
	Blocks   domain.BlockStore
	Counters domain.CounterStore
	Scorer   Scorer
	Logger   *zap.Logger
	Now      func() time.Time
}

func (e Engine) Inspect(ctx context.Context, req Request) Outcome {
	if e.Blocks == nil || e.Counters == nil {
		return Outcome{Allowed: true}
	}

	rec, err := e.Blocks.Get(ctx, req.Address)
	if err != nil {
		e.failOpen("block lookup failed", req, err)
		return Outcome{Allowed: true}
	}
	if rec != nil {
		return Outcome{Allowed: false, Record: rec}
	}

	if !e.Settings.PathProtected(req.Path) {
		return Outcome{Allowed: true}
	}

	blockTTL := time.Duration(e.Settings.BlockTTLSeconds) * time.Second

	n, err := e.Counters.IncrementAndGet(ctx, req.Address, domain.ScopeWindow, e.Settings.RateWindowSeconds)
	if err != nil {
		e.failOpen("window counter failed", req, err)
		return Outcome{Allowed: true}
	}
	if n > e.Settings.RateMaxRequests {
		rec := &domain.BlockRecord{
			Reason:        domain.ReasonRateWindow,
			BlockedAt:     e.now(),
			WindowSeconds: e.Settings.RateWindowSeconds,
			MaxRequests:   e.Settings.RateMaxRequests,
			ObservedCount: n,
			Path:          req.Path,
		}
		if err := e.Blocks.Put(ctx, req.Address, rec, blockTTL); err != nil {
			e.failOpen("window block write failed", req, err)
			return Outcome{Allowed: true}
		}
		return Outcome{Allowed: false, Record: rec}
	}

	n, err = e.Counters.IncrementAndGet(ctx, req.Address, domain.ScopeBurst, e.Settings.BurstWindowSeconds)
	if err != nil {
		e.failOpen("burst counter failed", req, err)
		return Outcome{Allowed: true}
	}
	if n > e.Settings.BurstMaxRequests {
		rec := &domain.BlockRecord{
			Reason:        domain.ReasonRateBurst,
			BlockedAt:     e.now(),
			WindowSeconds: e.Settings.BurstWindowSeconds,
			MaxRequests:   e.Settings.BurstMaxRequests,
			ObservedCount: n,
			Path:          req.Path,
		}
		if err := e.Blocks.Put(ctx, req.Address, rec, blockTTL); err != nil {
			e.failOpen("burst block write failed", req, err)
			return Outcome{Allowed: true}
		}
		return Outcome{Allowed: false, Record: rec}
	}

	res, err := e.Scorer.Score(ctx, req, e.Settings)
	if err != nil {
		e.failOpen("bot score failed", req, err)
		return Outcome{Allowed: true}
	}
	if res.Record != nil {
		if err := e.Blocks.Put(ctx, req.Address, res.Record, blockTTL); err != nil {
			e.failOpen("bot block write failed", req, err)
			return Outcome{Allowed: true}
		}
		return Outcome{Allowed: false, Record: res.Record}
	}

	return Outcome{Allowed: true}
}

func (e Engine) failOpen(msg string, req Request, err error) {
	if e.Logger == nil {
		return
	}
	e.Logger.Warn(msg,
		zap.String("ip", req.Address),
		zap.String("path", req.Path),
		zap.Error(err),
	)
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
