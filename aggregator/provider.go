package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrDuplicateRule indica que o provedor já tem uma regra para o endereço.
// Duplicata é desfecho esperado em rodadas repetidas, nunca falha.
var ErrDuplicateRule = errors.New("block rule already exists")

// ProviderOptions configura o cliente do provedor de firewall.
type ProviderOptions struct {
	URL   string
	Token string

	// RatePerSecond espaça as chamadas de criação. <= 0 desliga o ritmo.
	RatePerSecond float64

	// Timeout vale quando nenhum HTTPClient é injetado.
	Timeout time.Duration

	HTTPClient *http.Client

	// Note vai no campo note de cada regra criada.
	Note string
}

// ProviderClient cria regras de bloqueio via POST autenticado por bearer.
type ProviderClient struct {
	url     string
	token   string
	note    string
	http    *http.Client
	limiter *rate.Limiter
}

func NewProviderClient(opts ProviderOptions) *ProviderClient {
	c := &ProviderClient{
		url:   opts.URL,
		token: opts.Token,
		note:  opts.Note,
		http:  opts.HTTPClient,
	}
	if c.note == "" {
		c.note = "botnet-agg"
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = time.Duration(DefaultTimeoutSeconds) * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if opts.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return c
}

type blockRule struct {
	IP     string `json:"ip"`
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

// CreateBlockRule registra uma regra de bloqueio para o endereço.
//
// Qualquer resposta 2xx conta como criada. HTTP 409, ou qualquer corpo de
// erro contendo "already exists", devolve ErrDuplicateRule. O ritmo
// configurado é aplicado antes da chamada; contexto cancelado durante a
// espera interrompe com o erro do contexto.
func (c *ProviderClient) CreateBlockRule(ctx context.Context, address string) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	body, err := json.Marshal(blockRule{IP: address, Action: "block", Note: c.note})
	if err != nil {
		return fmt.Errorf("encode rule: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode == http.StatusConflict || strings.Contains(strings.ToLower(string(raw)), "already exists") {
		return ErrDuplicateRule
	}
	return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
