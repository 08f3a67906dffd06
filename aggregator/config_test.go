package aggregator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("sources:\n  - https://example.com/list.txt\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.RatePerSecond != DefaultRatePerSecond {
		t.Fatalf("expected default rate, got %v", cfg.Provider.RatePerSecond)
	}
	if cfg.Provider.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", cfg.Provider.TimeoutSeconds)
	}
	if cfg.Push {
		t.Fatalf("expected push disabled by default")
	}
}

func TestValidate_RequiresSomeInput(t *testing.T) {
	cfg := Config{Output: "merged.txt"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without sources or input")
	}

	cfg.Input = "list.txt"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PushNeedsProviderCredentials(t *testing.T) {
	cfg := Config{Sources: []string{"https://example.com/a"}, Push: true}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "provider.url") {
		t.Fatalf("expected provider.url error, got %v", err)
	}

	cfg.Provider.URL = "https://api.example.com/rules"
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "provider.token") {
		t.Fatalf("expected provider.token error, got %v", err)
	}

	cfg.Provider.Token = "tk"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_RejectsBadYAML(t *testing.T) {
	if _, err := Parse([]byte("sources: [unterminated")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agg.yaml")
	content := "sources:\n" +
		"  - https://example.com/list.txt\n" +
		"input: extra.txt\n" +
		"output: merged.txt\n" +
		"report: report.json\n" +
		"provider:\n" +
		"  url: https://api.example.com/rules\n" +
		"  token: tk\n" +
		"  rate_per_second: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Input != "extra.txt" || cfg.Output != "merged.txt" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Provider.RatePerSecond != 2 {
		t.Fatalf("expected rate 2, got %v", cfg.Provider.RatePerSecond)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
