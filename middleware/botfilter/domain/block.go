package domain

import "time"

// BlockReason identifica a origem de um bloqueio.
type BlockReason string

const (
	ReasonRateWindow   BlockReason = "rate_limit_window"
	ReasonRateBurst    BlockReason = "rate_limit_burst"
	ReasonBotSignature BlockReason = "bot_signature"
	ReasonManual       BlockReason = "manual"
)

// BlockRecord é o registro persistido para um endereço bloqueado.
//
// Serializado como JSON no KV e devolvido como `details` nas respostas 403 e
// da API administrativa. Os campos opcionais dependem do motivo: janelas de
// rate limit preenchem WindowSeconds/MaxRequests/ObservedCount, assinatura de
// bot preenche Score/BlockThreshold/ScoreDelta/Signals, bloqueio manual
// preenche Actor.
type BlockRecord struct {
	Reason    BlockReason `json:"reason"`
	BlockedAt time.Time   `json:"blockedAt"`

	WindowSeconds int    `json:"windowSeconds,omitempty"`
	MaxRequests   int    `json:"maxRequests,omitempty"`
	ObservedCount int    `json:"observedCount,omitempty"`
	Path          string `json:"path,omitempty"`

	Score          int      `json:"score,omitempty"`
	BlockThreshold int      `json:"blockThreshold,omitempty"`
	ScoreDelta     int      `json:"scoreDelta,omitempty"`
	Signals        []string `json:"signals,omitempty"`

	Actor string `json:"actor,omitempty"`
}
