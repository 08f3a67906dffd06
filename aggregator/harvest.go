package aggregator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"

	"go.uber.org/zap"
)

// maxSourceBytes limita o corpo lido de cada fonte remota.
const maxSourceBytes = 16 << 20

// ExtractAddresses varre um texto linha a linha e devolve os endereços com
// forma de IPv4/IPv6, na ordem em que aparecem, sem repetição.
//
// O que vem depois de '#' numa linha é comentário e é descartado. Tokens são
// separados por espaço ou vírgula; tudo que não tiver forma de IP é ignorado
// em silêncio (inclusive CIDRs).
func ExtractAddresses(text string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.FieldsFunc(line, isSeparator) {
			if !domain.ValidAddress(tok) {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// MergeUnique junta várias listas preservando a primeira ocorrência de cada
// endereço.
func MergeUnique(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, addr := range list {
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}

// Harvester busca e extrai endereços das fontes configuradas.
type Harvester struct {
	// HTTPClient busca as fontes remotas. Nil usa um cliente com timeout
	// de 30s.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// FromSources baixa cada URL na ordem dada e devolve os endereços únicos do
// conjunto. Qualquer fonte inacessível aborta a coleta; a rodada não deve
// seguir com uma lista parcial sem o operador saber.
func (h *Harvester) FromSources(ctx context.Context, urls []string) ([]string, error) {
	client := h.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var lists [][]string
	for _, u := range urls {
		addrs, err := h.fetch(ctx, client, u)
		if err != nil {
			return nil, fmt.Errorf("fetch source %s: %w", u, err)
		}
		h.logInfo("source harvested", zap.String("url", u), zap.Int("addresses", len(addrs)))
		lists = append(lists, addrs)
	}
	return MergeUnique(lists...), nil
}

func (h *Harvester) fetch(ctx context.Context, client *http.Client, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return ExtractAddresses(string(data)), nil
}

// FromFile extrai endereços de um arquivo local.
func (h *Harvester) FromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", path, err)
	}
	return ExtractAddresses(string(data)), nil
}

func (h *Harvester) logInfo(msg string, fields ...zap.Field) {
	if h.Logger != nil {
		h.Logger.Info(msg, fields...)
	}
}
