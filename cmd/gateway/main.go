package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/admin"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/infra"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// variáveis de um .env local valem como ambiente; ausência é normal
	_ = godotenv.Load()

	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := buildLogger(cfg)
	defer func() { _ = logger.Sync() }()

	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		logger.Fatal("invalid UPSTREAM_URL", zap.Error(err))
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("proxy error", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	settings := domain.ResolveSettings(rawSettings())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		blocks   domain.BlockStore
		counters domain.CounterStore
		scores   domain.ScoreStore
		stats    domain.StatsStore

		adminBlocks domain.BlockStore
		adminScores domain.ScoreStore
	)

	if cfg.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			// loja fora do ar não derruba o gateway: a inspeção falha aberta
			// requisição a requisição até o Redis voltar
			logger.Warn("redis unreachable at boot, inspection fails open until it returns", zap.Error(err))
		}

		kv := infra.NewRedisKV(rdb)
		blocks = infra.NewBlockStore(kv)
		counters = infra.NewCounterStore(kv)
		scores = infra.NewScoreStore(kv)
		adminBlocks, adminScores = blocks, scores

		if cfg.statsEnabled {
			stats = infra.NewRedisStatsStore(rdb,
				infra.WithStatsPrefix(cfg.statsPrefix),
				infra.WithStatsTTL(cfg.statsTTL),
				infra.WithStatsTrackAddresses(cfg.statsTrackAddresses),
			)
		}
	} else {
		// sem Redis a inspeção fica desligada; a API administrativa segue
		// funcional sobre armazenamento local ao processo
		logger.Warn("REDIS_ADDR empty, inspection disabled and admin data is process-local")
		kv := infra.NewMemoryKV()
		kv.StartJanitor(ctx)
		adminBlocks = infra.NewBlockStore(kv)
		adminScores = infra.NewScoreStore(kv)
	}

	if cfg.adminToken == "" {
		logger.Warn("ADMIN_TOKEN empty, every authenticated admin route answers 401")
	}
	adminAPI := admin.New(admin.Options{
		Service:  cfg.serviceName,
		Secret:   cfg.adminToken,
		Settings: settings,
		Blocks:   adminBlocks,
		Scores:   adminScores,
		Logger:   logger,
	})

	h := http.Handler(proxy)
	h = botfilter.ConcurrencyMiddleware(botfilter.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		AcquireTimeout: cfg.concurrencyTimeout,
		RetryAfter:     cfg.retryAfter,
	})(h)
	h = botfilter.Middleware(botfilter.Options{
		Settings: settings,
		Blocks:   blocks,
		Counters: counters,
		Scores:   scores,
		Admin:    adminAPI,
		Stats:    stats,
		Logger:   logger,
	})(h)

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("gateway listening",
		zap.String("addr", cfg.listenAddr),
		zap.String("upstream", target.String()),
		zap.String("adminPrefix", settings.AdminPathPrefix),
		zap.String("clientIpHeader", settings.ClientIPHeader),
		zap.Bool("redis", cfg.redisAddr != ""),
		zap.Bool("stats", stats != nil),
	)
	logger.Info("admission limits",
		zap.Int("rateWindowSeconds", settings.RateWindowSeconds),
		zap.Int("rateMaxRequests", settings.RateMaxRequests),
		zap.Int("burstWindowSeconds", settings.BurstWindowSeconds),
		zap.Int("burstMaxRequests", settings.BurstMaxRequests),
		zap.Int("botScoreBlockThreshold", settings.BotScoreBlockThreshold),
		zap.Int("concurrencyMax", cfg.concurrencyMax),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

type config struct {
	listenAddr  string
	upstreamURL string
	serviceName string

	redisAddr     string
	redisPassword string
	redisDB       int

	adminToken string

	concurrencyMax     int
	concurrencyTimeout time.Duration
	retryAfter         time.Duration

	statsEnabled        bool
	statsPrefix         string
	statsTTL            time.Duration
	statsTrackAddresses bool

	logLevel       string
	logFile        string
	logFileMaxMB   int
	logFileBackups int
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = os.Getenv("UPSTREAM_URL")
	cfg.serviceName = getenvDefault("SERVICE_NAME", "botnet-agg")

	cfg.redisAddr = os.Getenv("REDIS_ADDR")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)

	cfg.adminToken = os.Getenv("ADMIN_TOKEN")

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "botfilter:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsTrackAddresses = getenvBoolDefault("STATS_TRACK_ADDRESSES", false)

	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.logFile = os.Getenv("LOG_FILE")
	cfg.logFileMaxMB = getenvIntDefault("LOG_FILE_MAX_MB", 50)
	cfg.logFileBackups = getenvIntDefault("LOG_FILE_BACKUPS", 3)

	if cfg.upstreamURL == "" {
		return config{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if cfg.statsEnabled && cfg.redisAddr == "" {
		return config{}, errors.New("REDIS_ADDR is required when STATS_ENABLED=true")
	}
	return cfg, nil
}

// rawSettings traduz as variáveis de ambiente do filtro para o mapa de
// valores crus que o resolvedor entende. Só entram chaves presentes e não
// vazias; o resto cai nos padrões documentados.
func rawSettings() map[string]string {
	pairs := map[string]string{
		"RATE_WINDOW_SECONDS":       "rateWindowSeconds",
		"RATE_MAX_REQUESTS":         "rateMaxRequests",
		"BURST_WINDOW_SECONDS":      "burstWindowSeconds",
		"BURST_MAX_REQUESTS":        "burstMaxRequests",
		"BLOCK_TTL_SECONDS":         "blockTtlSeconds",
		"PROTECTED_PATH_PREFIXES":   "protectedPathPrefixes",
		"ADMIN_PATH_PREFIX":         "adminPathPrefix",
		"ALLOWLIST_IPS":             "allowlistIps",
		"SUSPICIOUS_PATH_PATTERNS":  "suspiciousPathPatterns",
		"BAD_USER_AGENT_PATTERNS":   "badUserAgentPatterns",
		"BOT_SCORE_TTL_SECONDS":     "botScoreTtlSeconds",
		"BOT_SCORE_BLOCK_THRESHOLD": "botScoreBlockThreshold",
		"BOT_SCORE_PATH_WEIGHT":     "botScorePathWeight",
		"BOT_SCORE_UA_WEIGHT":       "botScoreUserAgentWeight",
		"CLIENT_IP_HEADER":          "clientIpHeader",
	}

	raw := make(map[string]string, len(pairs))
	for env, key := range pairs {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			raw[key] = v
		}
	}
	return raw
}

// buildLogger monta o logger JSON do processo. LOG_FILE vazio escreve em
// stdout; preenchido, escreve no arquivo com rotação por tamanho.
func buildLogger(cfg config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.AddSync(os.Stdout)
	if cfg.logFile != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.logFile,
			MaxSize:    cfg.logFileMaxMB,
			MaxBackups: cfg.logFileBackups,
		})
	}

	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level))
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
