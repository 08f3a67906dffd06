package botfilter

import (
	"encoding/json"
	"net/http"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// respostas JSON emitidas pelo próprio filtro (requisições bloqueadas).

type blockedPayload struct {
	OK      bool                `json:"ok"`
	Blocked bool                `json:"blocked"`
	IP      string              `json:"ip"`
	Details *domain.BlockRecord `json:"details"`
}

func writeBlocked(w http.ResponseWriter, address string, rec *domain.BlockRecord) {
	writeJSON(w, http.StatusForbidden, blockedPayload{
		OK:      false,
		Blocked: true,
		IP:      address,
		Details: rec,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
