package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/application"
	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Options struct {
	// Service aparece no payload de /health.
	Service string

	// Secret é o bearer token exigido nas rotas autenticadas.
	// Vazio significa que nenhuma credencial é aceita (tudo 401).
	Secret string

	Settings domain.Settings
	Blocks   domain.BlockStore
	Scores   domain.ScoreStore

	Logger *zap.Logger
	Now    func() time.Time
}

// API é um http.Handler que atende a superfície administrativa completa.
// Deve receber o caminho ainda com o prefixo configurado (o middleware
// despacha assim); o próprio handler remove o prefixo antes de rotear.
type API struct {
	service string
	secret  string
	prefix  string
	svc     application.AdminService
	logger  *zap.Logger
	router  chi.Router
}

func New(opts Options) *API {
	a := &API{
		service: opts.Service,
		secret:  opts.Secret,
		prefix:  strings.TrimSuffix(opts.Settings.AdminPathPrefix, "/"),
		logger:  opts.Logger,
		svc: application.AdminService{
			Settings: opts.Settings,
			Blocks:   opts.Blocks,
			Scores:   opts.Scores,
			Now:      opts.Now,
		},
	}
	if a.service == "" {
		a.service = "botnet-agg"
	}

	r := chi.NewRouter()
	r.Get("/health", a.handleHealth)
	r.Group(func(gr chi.Router) {
		gr.Use(a.requireBearer)
		gr.Get("/status", a.handleStatus)
		gr.Post("/block", a.handleBlock)
		gr.Post("/unblock", a.handleUnblock)
		gr.Delete("/unblock", a.handleUnblock)
	})

	// rota desconhecida ou método errado: autentica primeiro, 404 depois
	r.NotFound(a.handleUnknown)
	r.MethodNotAllowed(a.handleUnknown)

	a.router = r
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimPrefix(r.URL.Path, a.prefix)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	r2 := r.Clone(r.Context())
	r2.URL.Path = p
	a.router.ServeHTTP(w, r2)
}

// authorized exige igualdade exata com "Bearer <segredo>".
func (a *API) authorized(r *http.Request) bool {
	if a.secret == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+a.secret
}

func (a *API) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, errorPayload{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthPayload{OK: true, Service: a.service})
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	ip := strings.TrimSpace(r.URL.Query().Get("ip"))

	res, err := a.svc.Status(r.Context(), ip)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusPayload{
		OK:       true,
		IP:       ip,
		Blocked:  res.Blocked,
		Details:  res.Record,
		BotScore: res.BotScore,
	})
}

func (a *API) handleBlock(w http.ResponseWriter, r *http.Request) {
	body := readBody(w, r)

	rec, ttl, err := a.svc.Block(r.Context(), body.IP, domain.BlockReason(body.Reason), body.TTLSeconds)
	if err != nil {
		a.fail(w, err)
		return
	}

	a.logInfo("address blocked by admin",
		zap.String("ip", body.IP),
		zap.String("reason", string(rec.Reason)),
		zap.Int("ttlSeconds", ttl),
	)
	writeJSON(w, http.StatusOK, blockPayload{
		OK:         true,
		Blocked:    true,
		IP:         body.IP,
		TTLSeconds: ttl,
		Details:    rec,
	})
}

func (a *API) handleUnblock(w http.ResponseWriter, r *http.Request) {
	body := readBody(w, r)

	if err := a.svc.Unblock(r.Context(), body.IP); err != nil {
		a.fail(w, err)
		return
	}

	a.logInfo("address unblocked by admin", zap.String("ip", body.IP))
	writeJSON(w, http.StatusOK, unblockPayload{OK: true, Blocked: false, IP: body.IP})
}

func (a *API) handleUnknown(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorPayload{Error: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusNotFound, errorPayload{Error: "not_found"})
}

func (a *API) fail(w http.ResponseWriter, err error) {
	status, token := statusForError(err)
	if status == http.StatusInternalServerError && a.logger != nil {
		a.logger.Error("admin operation failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Error: token})
}

func (a *API) logInfo(msg string, fields ...zap.Field) {
	if a.logger != nil {
		a.logger.Info(msg, fields...)
	}
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, "invalid_ip"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusInternalServerError, "store_unavailable"
	default:
		return http.StatusInternalServerError, "store_error"
	}
}

type blockRequest struct {
	IP         string `json:"ip"`
	Reason     string `json:"reason"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// readBody decodifica o corpo das rotas de escrita. Corpo malformado equivale
// a corpo vazio: a validação de endereço produz o mesmo 400 de ip ausente.
func readBody(w http.ResponseWriter, r *http.Request) blockRequest {
	var body blockRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return blockRequest{}
	}
	body.IP = strings.TrimSpace(body.IP)
	return body
}

type healthPayload struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

type statusPayload struct {
	OK       bool                `json:"ok"`
	IP       string              `json:"ip"`
	Blocked  bool                `json:"blocked"`
	Details  *domain.BlockRecord `json:"details"`
	BotScore int                 `json:"botScore"`
}

type blockPayload struct {
	OK         bool                `json:"ok"`
	Blocked    bool                `json:"blocked"`
	IP         string              `json:"ip"`
	TTLSeconds int                 `json:"ttlSeconds"`
	Details    *domain.BlockRecord `json:"details"`
}

type unblockPayload struct {
	OK      bool   `json:"ok"`
	Blocked bool   `json:"blocked"`
	IP      string `json:"ip"`
}

type errorPayload struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
