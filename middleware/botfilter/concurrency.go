package botfilter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/application"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/infra"
)

// ConcurrencyOptions controla o limite de requisições simultâneas que
// atravessam o gateway. Independe da identidade do cliente: é proteção de
// capacidade, não de admissão.
type ConcurrencyOptions struct {
	// Max <= 0 desliga o limite (middleware vira no-op).
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration

	// RetryAfter vai no header da resposta de rejeição.
	RetryAfter time.Duration
}

func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 1 * time.Second
	}

	svc := application.SlotService{
		Pool:           infra.NewChanPool(opts.Max),
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(opts.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
