package domain

import (
	"strconv"
	"strings"
)

// Valores padrão documentados da configuração do filtro.
// Qualquer valor ausente ou inválido cai no padrão correspondente.
const (
	DefaultRateWindowSeconds       = 60
	DefaultRateMaxRequests         = 180
	DefaultBurstWindowSeconds      = 10
	DefaultBurstMaxRequests        = 30
	DefaultBlockTTLSeconds         = 3600
	DefaultAdminPathPrefix         = "/__botnet"
	DefaultClientIPHeader          = "CF-Connecting-IP"
	DefaultBotScoreTTLSeconds      = 900
	DefaultBotScoreBlockThreshold  = 6
	DefaultBotScorePathWeight      = 3
	DefaultBotScoreUserAgentWeight = 2
)

// Listas padrão. O resolvedor sempre devolve cópias; estes slices não devem
// ser mutados.
var (
	DefaultProtectedPathPrefixes = []string{"*"}

	DefaultSuspiciousPathPatterns = []string{
		"/wp-login.php",
		"/xmlrpc.php",
		"/wp-admin",
		"/.env",
		"/cgi-bin",
		"/boaform",
	}

	DefaultBadUserAgentPatterns = []string{
		"python-requests",
		"curl/",
		"wget/",
		"sqlmap",
		"masscan",
		"nmap",
		"zgrab",
		"go-http-client",
	}
)

// Settings é a configuração resolvida do filtro: sempre completa, sempre
// normalizada. Obtida via ResolveSettings; nunca construída à mão em produção.
type Settings struct {
	RateWindowSeconds  int
	RateMaxRequests    int
	BurstWindowSeconds int
	BurstMaxRequests   int

	BlockTTLSeconds int

	ProtectedPathPrefixes []string
	AdminPathPrefix       string
	AllowlistIPs          []string

	SuspiciousPathPatterns []string
	BadUserAgentPatterns   []string

	BotScoreTTLSeconds      int
	BotScoreBlockThreshold  int
	BotScorePathWeight      int
	BotScoreUserAgentWeight int

	// ClientIPHeader é o header confiável de onde sai o endereço do cliente.
	ClientIPHeader string
}

// ResolveSettings monta uma Settings completa a partir de um mapa de valores
// crus (tipicamente derivado de variáveis de ambiente). Valores ausentes,
// vazios, não numéricos ou não positivos caem no padrão documentado. Nunca
// retorna erro: configuração quebrada degrada para os padrões, não derruba o
// filtro.
//
// Chaves reconhecidas (camelCase): rateWindowSeconds, rateMaxRequests,
// burstWindowSeconds, burstMaxRequests, blockTtlSeconds,
// protectedPathPrefixes, adminPathPrefix, allowlistIps,
// suspiciousPathPatterns, badUserAgentPatterns, botScoreTtlSeconds,
// botScoreBlockThreshold, botScorePathWeight, botScoreUserAgentWeight,
// clientIpHeader.
//
// Listas são separadas por vírgula, com entradas aparadas e vazias
// descartadas; listas de padrões são adicionalmente minusculizadas. Uma lista
// que resolve vazia cai na lista padrão, nunca em uma lista vazia.
func ResolveSettings(raw map[string]string) Settings {
	return Settings{
		RateWindowSeconds:  positiveInt(raw, "rateWindowSeconds", DefaultRateWindowSeconds),
		RateMaxRequests:    positiveInt(raw, "rateMaxRequests", DefaultRateMaxRequests),
		BurstWindowSeconds: positiveInt(raw, "burstWindowSeconds", DefaultBurstWindowSeconds),
		BurstMaxRequests:   positiveInt(raw, "burstMaxRequests", DefaultBurstMaxRequests),

		BlockTTLSeconds: positiveInt(raw, "blockTtlSeconds", DefaultBlockTTLSeconds),

		ProtectedPathPrefixes: prefixList(raw, "protectedPathPrefixes", DefaultProtectedPathPrefixes),
		AdminPathPrefix:       pathValue(raw, "adminPathPrefix", DefaultAdminPathPrefix),
		AllowlistIPs:          plainList(raw, "allowlistIps", nil),

		SuspiciousPathPatterns: patternList(raw, "suspiciousPathPatterns", DefaultSuspiciousPathPatterns),
		BadUserAgentPatterns:   patternList(raw, "badUserAgentPatterns", DefaultBadUserAgentPatterns),

		BotScoreTTLSeconds:      positiveInt(raw, "botScoreTtlSeconds", DefaultBotScoreTTLSeconds),
		BotScoreBlockThreshold:  positiveInt(raw, "botScoreBlockThreshold", DefaultBotScoreBlockThreshold),
		BotScorePathWeight:      positiveInt(raw, "botScorePathWeight", DefaultBotScorePathWeight),
		BotScoreUserAgentWeight: positiveInt(raw, "botScoreUserAgentWeight", DefaultBotScoreUserAgentWeight),

		ClientIPHeader: stringValue(raw, "clientIpHeader", DefaultClientIPHeader),
	}
}

// DefaultSettings é o resultado de resolver um mapa vazio.
func DefaultSettings() Settings {
	return ResolveSettings(nil)
}

// PathProtected informa se o caminho está no escopo de inspeção.
// O curinga "*" protege qualquer caminho.
func (s Settings) PathProtected(path string) bool {
	for _, p := range s.ProtectedPathPrefixes {
		if p == "*" {
			return true
		}
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Allowlisted informa se o endereço está isento de inspeção.
// Comparação exata de strings com as entradas de allowlistIps.
func (s Settings) Allowlisted(address string) bool {
	for _, a := range s.AllowlistIPs {
		if a == address {
			return true
		}
	}
	return false
}

func positiveInt(raw map[string]string, key string, def int) int {
	v := strings.TrimSpace(raw[key])
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func stringValue(raw map[string]string, key, def string) string {
	v := strings.TrimSpace(raw[key])
	if v == "" {
		return def
	}
	return v
}

// pathValue é stringValue com "/" inicial garantido.
func pathValue(raw map[string]string, key, def string) string {
	v := stringValue(raw, key, def)
	if !strings.HasPrefix(v, "/") {
		v = "/" + v
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// plainList devolve a lista configurada ou uma cópia da lista padrão quando a
// configurada resolve vazia.
func plainList(raw map[string]string, key string, def []string) []string {
	items := splitList(raw[key])
	if len(items) == 0 {
		return append([]string(nil), def...)
	}
	return items
}

func patternList(raw map[string]string, key string, def []string) []string {
	items := plainList(raw, key, def)
	for i, it := range items {
		items[i] = strings.ToLower(it)
	}
	return items
}

// prefixList normaliza prefixos de caminho: "/" inicial garantido, exceto
// para o curinga "*".
func prefixList(raw map[string]string, key string, def []string) []string {
	items := plainList(raw, key, def)
	for i, it := range items {
		if it != "*" && !strings.HasPrefix(it, "/") {
			items[i] = "/" + it
		}
	}
	return items
}
