package application

import (
	"context"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

// AdminService concentra as operações administrativas sobre bloqueios e
// pontuações. Não conhece HTTP: a tradução para rotas e status fica no
// pacote admin.
//
// Ao contrário do motor de inspeção, aqui armazenamento ausente ou com erro
// NÃO é fail-open: as operações falham explicitamente.
type AdminService struct {
	Settings domain.Settings
	Blocks   domain.BlockStore
	Scores   domain.ScoreStore
	Now      func() time.Time
}

// StatusResult agrega o estado persistido de um endereço.
type StatusResult struct {
	Blocked  bool
	Record   *domain.BlockRecord
	BotScore int
}

// Status consulta bloqueio e pontuação vigentes do endereço.
func (s AdminService) Status(ctx context.Context, address string) (StatusResult, error) {
	if s.Blocks == nil || s.Scores == nil {
		return StatusResult{}, domain.ErrStoreUnavailable
	}
	if !domain.ValidAddress(address) {
		return StatusResult{}, domain.ErrInvalidAddress
	}

	rec, err := s.Blocks.Get(ctx, address)
	if err != nil {
		return StatusResult{}, err
	}
	score, err := s.Scores.Get(ctx, address)
	if err != nil {
		return StatusResult{}, err
	}
	return StatusResult{Blocked: rec != nil, Record: rec, BotScore: score}, nil
}

// Block grava um bloqueio manual para o endereço. reason vazio vira
// "manual"; ttlSeconds não positivo cai no TTL padrão configurado.
// Retorna o registro gravado e o TTL efetivamente aplicado, em segundos.
// A pontuação de bot não é tocada.
func (s AdminService) Block(ctx context.Context, address string, reason domain.BlockReason, ttlSeconds int) (*domain.BlockRecord, int, error) {
	if s.Blocks == nil {
		return nil, 0, domain.ErrStoreUnavailable
	}
	if !domain.ValidAddress(address) {
		return nil, 0, domain.ErrInvalidAddress
	}

	if reason == "" {
		reason = domain.ReasonManual
	}
	if ttlSeconds <= 0 {
		ttlSeconds = s.Settings.BlockTTLSeconds
	}

	rec := &domain.BlockRecord{
		Reason:    reason,
		BlockedAt: s.now(),
		Actor:     "admin_api",
	}
	if err := s.Blocks.Put(ctx, address, rec, time.Duration(ttlSeconds)*time.Second); err != nil {
		return nil, 0, err
	}
	return rec, ttlSeconds, nil
}

// Unblock remove bloqueio e pontuação do endereço. Remover o que não existe
// é sucesso: a operação é idempotente.
func (s AdminService) Unblock(ctx context.Context, address string) error {
	if s.Blocks == nil || s.Scores == nil {
		return domain.ErrStoreUnavailable
	}
	if !domain.ValidAddress(address) {
		return domain.ErrInvalidAddress
	}

	if err := s.Blocks.Delete(ctx, address); err != nil {
		return err
	}
	return s.Scores.Delete(ctx, address)
}

func (s AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
