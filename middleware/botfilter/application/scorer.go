package application

import (
	"context"
	"strings"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// Nomes dos sinais heurísticos registrados no BlockRecord.
const (
	SignalSuspiciousPath   = "suspicious_path"
	SignalMissingUserAgent = "missing_user_agent"
	SignalBadUserAgent     = "bad_user_agent"
)

// Scorer acumula sinais heurísticos de bot por endereço.
//
// Cada requisição contribui no máximo um sinal de caminho e um sinal de user
// agent. Sem sinal algum não há escrita no ScoreStore.
type Scorer struct {
	Scores domain.ScoreStore
	Now    func() time.Time
}

// ScoreResult descreve o efeito da pontuação sobre a requisição corrente.
type ScoreResult struct {
	// Delta aplicado nesta requisição; 0 significa nenhum sinal.
	Delta   int
	Total   int
	Signals []string

	// Record fica preenchido quando o total atinge o limiar de bloqueio.
	// Quem persiste é o chamador.
	Record *domain.BlockRecord
}

// Score avalia os sinais da requisição e, havendo algum, soma o delta no
// ScoreStore renovando o TTL inteiro do total.
func (s Scorer) Score(ctx context.Context, req Request, cfg domain.Settings) (ScoreResult, error) {
	delta := 0
	var signals []string

	lowerPath := strings.ToLower(req.Path)
	for _, pat := range cfg.SuspiciousPathPatterns {
		if strings.Contains(lowerPath, pat) {
			delta += cfg.BotScorePathWeight
			signals = append(signals, SignalSuspiciousPath)
			break
		}
	}

	if req.UserAgent == "" {
		delta += cfg.BotScoreUserAgentWeight
		signals = append(signals, SignalMissingUserAgent)
	} else {
		lowerUA := strings.ToLower(req.UserAgent)
		for _, pat := range cfg.BadUserAgentPatterns {
			if strings.Contains(lowerUA, pat) {
				delta += cfg.BotScoreUserAgentWeight
				signals = append(signals, SignalBadUserAgent)
				break
			}
		}
	}

	if delta == 0 || s.Scores == nil {
		return ScoreResult{Delta: delta, Signals: signals}, nil
	}

	ttl := time.Duration(cfg.BotScoreTTLSeconds) * time.Second
	total, err := s.Scores.Add(ctx, req.Address, delta, ttl)
	if err != nil {
		return ScoreResult{}, err
	}

	res := ScoreResult{Delta: delta, Total: total, Signals: signals}
	if total >= cfg.BotScoreBlockThreshold {
		res.Record = &domain.BlockRecord{
			Reason:         domain.ReasonBotSignature,
			BlockedAt:      s.now(),
			Path:           req.Path,
			Score:          total,
			BlockThreshold: cfg.BotScoreBlockThreshold,
			ScoreDelta:     delta,
			Signals:        signals,
		}
	}
	return res, nil
}

func (s Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
