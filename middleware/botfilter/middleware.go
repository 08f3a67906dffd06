package botfilter

import (
	"net/http"
	"strings"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/application"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"

	"go.uber.org/zap"
)

// Options liga o middleware às suas dependências.
//
// Os três stores andam juntos: com qualquer um ausente, a inspeção inteira
// vira passagem direta (fail-open). A API administrativa continua atendendo
// mesmo sem stores, respondendo erro explícito nas operações que dependem
// deles.
type Options struct {
	// Settings resolvida via domain.ResolveSettings.
	Settings domain.Settings

	Blocks   domain.BlockStore
	Counters domain.CounterStore
	Scores   domain.ScoreStore

	// Admin atende tudo sob Settings.AdminPathPrefix, antes de qualquer
	// inspeção. Opcional.
	Admin http.Handler

	// Stats registra decisões em best-effort; erro de gravação nunca muda o
	// desfecho da requisição. Opcional.
	Stats domain.StatsStore

	// Logger recebe os erros de armazenamento engolidos pelo fail-open.
	// Opcional.
	Logger *zap.Logger

	// Now injeta o relógio usado nos registros de bloqueio (testes).
	Now func() time.Time
}

// Middleware devolve o filtro de admissão como middleware net/http padrão.
//
// Ordem por requisição: despacho administrativo, disponibilidade dos stores,
// extração e validação do endereço, allowlist, inspeção. Requisição permitida
// segue para next sem alteração; bloqueada recebe 403 com corpo JSON.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	engine := application.Engine{
		Settings: opts.Settings,
		Blocks:   opts.Blocks,
		Counters: opts.Counters,
		Scorer:   application.Scorer{Scores: opts.Scores, Now: opts.Now},
		Logger:   opts.Logger,
		Now:      opts.Now,
	}
	storesReady := opts.Blocks != nil && opts.Counters != nil && opts.Scores != nil

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Admin != nil && strings.HasPrefix(r.URL.Path, opts.Settings.AdminPathPrefix) {
				opts.Admin.ServeHTTP(w, r)
				return
			}

			if !storesReady {
				next.ServeHTTP(w, r)
				return
			}

			address := ClientAddress(r, opts.Settings)
			if address == "" || opts.Settings.Allowlisted(address) {
				next.ServeHTTP(w, r)
				return
			}

			out := engine.Inspect(r.Context(), application.Request{
				Address:   address,
				Path:      r.URL.Path,
				UserAgent: r.Header.Get("User-Agent"),
			})

			if opts.Stats != nil {
				ev := domain.DecisionEvent{
					Address: address,
					Allowed: out.Allowed,
					Path:    r.URL.Path,
					At:      now(),
				}
				if out.Record != nil {
					ev.Reason = out.Record.Reason
				}
				_ = opts.Stats.Record(r.Context(), ev)
			}

			if !out.Allowed {
				writeBlocked(w, address, out.Record)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
