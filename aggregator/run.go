package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Runner executa uma rodada completa: coleta, consolidação, gravação e,
// quando habilitado, push das regras.
type Runner struct {
	Config Config

	// Provider é exigido quando Config.Push está ligado.
	Provider *ProviderClient

	// HTTPClient é repassado ao Harvester.
	HTTPClient *http.Client

	Logger *zap.Logger

	// Now injeta o relógio carimbado no relatório.
	Now func() time.Time
}

// Run devolve o relatório da rodada. Falha de fonte, de escrita ou contexto
// cancelado abortam; falha de criação de uma regra individual vira desfecho
// failed e a rodada segue.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.Config.Push && r.Provider == nil {
		return nil, errors.New("push enabled without a provider client")
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	h := &Harvester{HTTPClient: r.HTTPClient, Logger: r.Logger}

	var lists [][]string
	if len(r.Config.Sources) > 0 {
		addrs, err := h.FromSources(ctx, r.Config.Sources)
		if err != nil {
			return nil, err
		}
		lists = append(lists, addrs)
	}
	if r.Config.Input != "" {
		addrs, err := h.FromFile(r.Config.Input)
		if err != nil {
			return nil, err
		}
		lists = append(lists, addrs)
	}

	addresses := MergeUnique(lists...)
	r.logInfo("harvest finished", zap.Int("addresses", len(addresses)))

	if r.Config.Output != "" {
		if err := WriteMerged(r.Config.Output, addresses); err != nil {
			return nil, err
		}
	}

	report := newReport(now())
	for _, addr := range addresses {
		if !r.Config.Push {
			report.add(addr, OutcomeDryRun, "")
			continue
		}

		err := r.Provider.CreateBlockRule(ctx, addr)
		switch {
		case err == nil:
			report.add(addr, OutcomeCreated, "")
		case errors.Is(err, ErrDuplicateRule):
			report.add(addr, OutcomeDuplicate, "")
		case ctx.Err() != nil:
			return nil, fmt.Errorf("push interrupted at %s: %w", addr, ctx.Err())
		default:
			r.logWarn("rule creation failed", zap.String("ip", addr), zap.Error(err))
			report.add(addr, OutcomeFailed, err.Error())
		}
	}

	if r.Config.Report != "" {
		if err := report.WriteFile(r.Config.Report); err != nil {
			return nil, err
		}
	}

	r.logInfo("run finished",
		zap.Int("total", report.Total),
		zap.Int("created", report.Counts[OutcomeCreated]),
		zap.Int("duplicate", report.Counts[OutcomeDuplicate]),
		zap.Int("failed", report.Counts[OutcomeFailed]),
	)
	return report, nil
}

func (r *Runner) logInfo(msg string, fields ...zap.Field) {
	if r.Logger != nil {
		r.Logger.Info(msg, fields...)
	}
}

func (r *Runner) logWarn(msg string, fields ...zap.Field) {
	if r.Logger != nil {
		r.Logger.Warn(msg, fields...)
	}
}
