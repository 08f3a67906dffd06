package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/admin"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/infra"
)

func main() {
	// Exemplo: injetando o filtro diretamente no seu webserver (sem proxy),
	// com armazenamento em memória local ao processo. Produção usa o gateway
	// com Redis; aqui dá para exercitar bloqueio, score e API administrativa
	// num binário só.
	settings := domain.ResolveSettings(map[string]string{
		"rateMaxRequests":  "60",
		"burstMaxRequests": "15",
		"clientIpHeader":   "X-Real-IP",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kv := infra.NewMemoryKV()
	kv.StartJanitor(ctx)
	blocks := infra.NewBlockStore(kv)
	scores := infra.NewScoreStore(kv)

	adminAPI := admin.New(admin.Options{
		Service:  "example-origin",
		Secret:   os.Getenv("ADMIN_TOKEN"),
		Settings: settings,
		Blocks:   blocks,
		Scores:   scores,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	h := http.Handler(mux)
	h = botfilter.ConcurrencyMiddleware(botfilter.ConcurrencyOptions{Max: 50})(h)
	h = botfilter.Middleware(botfilter.Options{
		Settings: settings,
		Blocks:   blocks,
		Counters: infra.NewCounterStore(kv),
		Scores:   scores,
		Admin:    adminAPI,
		Stats:    infra.NewMemoryStatsStore(),
	})(h)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("example server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
