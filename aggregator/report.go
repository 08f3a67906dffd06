package aggregator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Outcome é o desfecho de um endereço dentro de uma rodada.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
	OutcomeDryRun    Outcome = "dry_run"
)

// Entry registra o desfecho de um endereço. Error só aparece em failed.
type Entry struct {
	Address string  `json:"address"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// Report consolida uma rodada inteira.
type Report struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Total       int             `json:"total"`
	Counts      map[Outcome]int `json:"counts"`
	Entries     []Entry         `json:"entries"`
}

func newReport(at time.Time) *Report {
	return &Report{GeneratedAt: at, Counts: make(map[Outcome]int)}
}

func (r *Report) add(address string, outcome Outcome, detail string) {
	r.Entries = append(r.Entries, Entry{Address: address, Outcome: outcome, Error: detail})
	r.Counts[outcome]++
	r.Total++
}

// WriteFile grava o relatório como JSON indentado.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// WriteMerged grava a lista consolidada, um endereço por linha.
func WriteMerged(path string, addresses []string) error {
	var b strings.Builder
	for _, addr := range addresses {
		b.WriteString(addr)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write merged list %s: %w", path, err)
	}
	return nil
}
