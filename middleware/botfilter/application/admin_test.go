package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

func newAdmin(blocks *memBlocks, scores *memScores) AdminService {
	return AdminService{
		Settings: domain.DefaultSettings(),
		Blocks:   blocks,
		Scores:   scores,
		Now:      func() time.Time { return time.Unix(1000, 0) },
	}
}

func TestAdminService_StatusUnknownAddress(t *testing.T) {
	svc := newAdmin(newMemBlocks(), newMemScores())

	res, err := svc.Status(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if res.Blocked || res.Record != nil || res.BotScore != 0 {
		t.Fatalf("expected clean status, got %+v", res)
	}
}

func TestAdminService_StatusReportsBlockAndScore(t *testing.T) {
	blocks := newMemBlocks()
	blocks.recs["1.2.3.4"] = &domain.BlockRecord{Reason: domain.ReasonRateBurst}
	scores := newMemScores()
	scores.scores["1.2.3.4"] = 4
	svc := newAdmin(blocks, scores)

	res, err := svc.Status(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !res.Blocked {
		t.Fatalf("expected blocked")
	}
	if res.Record.Reason != domain.ReasonRateBurst {
		t.Fatalf("expected reason rate_limit_burst, got %q", res.Record.Reason)
	}
	if res.BotScore != 4 {
		t.Fatalf("expected bot score 4, got %d", res.BotScore)
	}
}

func TestAdminService_InvalidAddressIsRejected(t *testing.T) {
	svc := newAdmin(newMemBlocks(), newMemScores())
	ctx := context.Background()

	if _, err := svc.Status(ctx, "not-an-ip"); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress from status, got %v", err)
	}
	if _, _, err := svc.Block(ctx, "999.1.1.1", "", 0); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress from block, got %v", err)
	}
	if err := svc.Unblock(ctx, ""); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress from unblock, got %v", err)
	}
}

func TestAdminService_MissingStoresFailFast(t *testing.T) {
	svc := AdminService{Settings: domain.DefaultSettings()}
	ctx := context.Background()

	if _, err := svc.Status(ctx, "1.2.3.4"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from status, got %v", err)
	}
	if _, _, err := svc.Block(ctx, "1.2.3.4", "", 0); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from block, got %v", err)
	}
	if err := svc.Unblock(ctx, "1.2.3.4"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from unblock, got %v", err)
	}
}

func TestAdminService_BlockDefaultsReasonAndTTL(t *testing.T) {
	blocks := newMemBlocks()
	svc := newAdmin(blocks, newMemScores())

	rec, ttl, err := svc.Block(context.Background(), "1.2.3.4", "", 0)
	if err != nil {
		t.Fatalf("block error: %v", err)
	}
	if rec.Reason != domain.ReasonManual {
		t.Fatalf("expected reason manual, got %q", rec.Reason)
	}
	if rec.Actor != "admin_api" {
		t.Fatalf("expected actor admin_api, got %q", rec.Actor)
	}
	if ttl != domain.DefaultBlockTTLSeconds {
		t.Fatalf("expected default ttl %d, got %d", domain.DefaultBlockTTLSeconds, ttl)
	}
	if blocks.recs["1.2.3.4"] == nil {
		t.Fatalf("expected record to be persisted")
	}
}

func TestAdminService_BlockKeepsGivenReasonAndTTL(t *testing.T) {
	svc := newAdmin(newMemBlocks(), newMemScores())

	rec, ttl, err := svc.Block(context.Background(), "1.2.3.4", "abuse_report", 120)
	if err != nil {
		t.Fatalf("block error: %v", err)
	}
	if rec.Reason != "abuse_report" {
		t.Fatalf("expected custom reason, got %q", rec.Reason)
	}
	if ttl != 120 {
		t.Fatalf("expected ttl 120, got %d", ttl)
	}
}

func TestAdminService_BlockDoesNotTouchScore(t *testing.T) {
	scores := newMemScores()
	scores.scores["1.2.3.4"] = 5
	svc := newAdmin(newMemBlocks(), scores)

	if _, _, err := svc.Block(context.Background(), "1.2.3.4", "", 0); err != nil {
		t.Fatalf("block error: %v", err)
	}
	if scores.scores["1.2.3.4"] != 5 {
		t.Fatalf("expected score to be untouched, got %d", scores.scores["1.2.3.4"])
	}
}

func TestAdminService_UnblockClearsBlockAndScore(t *testing.T) {
	blocks := newMemBlocks()
	blocks.recs["1.2.3.4"] = &domain.BlockRecord{Reason: domain.ReasonManual}
	scores := newMemScores()
	scores.scores["1.2.3.4"] = 7
	svc := newAdmin(blocks, scores)

	if err := svc.Unblock(context.Background(), "1.2.3.4"); err != nil {
		t.Fatalf("unblock error: %v", err)
	}
	if blocks.recs["1.2.3.4"] != nil {
		t.Fatalf("expected block to be removed")
	}
	if _, ok := scores.scores["1.2.3.4"]; ok {
		t.Fatalf("expected score to be removed")
	}
}

func TestAdminService_UnblockIsIdempotent(t *testing.T) {
	svc := newAdmin(newMemBlocks(), newMemScores())

	if err := svc.Unblock(context.Background(), "1.2.3.4"); err != nil {
		t.Fatalf("expected unblock of absent address to succeed, got %v", err)
	}
}
