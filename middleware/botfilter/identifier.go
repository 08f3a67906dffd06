package botfilter

import (
	"net/http"
	"strings"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// ClientAddress extrai o endereço do cliente do header confiável configurado
// (padrão CF-Connecting-IP).
//
// Retorna "" quando o header está ausente ou o valor não tem forma de IP.
// Sem endereço não há inspeção: a requisição passa direto. O header vem da
// borda confiável do deployment, não do cliente final; não há parsing de
// cadeia no estilo X-Forwarded-For.
func ClientAddress(r *http.Request, cfg domain.Settings) string {
	raw := strings.TrimSpace(r.Header.Get(cfg.ClientIPHeader))
	if raw == "" || !domain.ValidAddress(raw) {
		return ""
	}
	return raw
}
