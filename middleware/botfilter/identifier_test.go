package botfilter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Legendarylibr/botnet-agg/middleware/botfilter/domain"
)

func TestClientAddress_ReadsDefaultHeader(t *testing.T) {
	cfg := domain.DefaultSettings()

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("CF-Connecting-IP", "203.0.113.7")
	r.RemoteAddr = "10.0.0.1:1234"

	if got := ClientAddress(r, cfg); got != "203.0.113.7" {
		t.Fatalf("expected header address, got %q", got)
	}
}

func TestClientAddress_HonorsConfiguredHeader(t *testing.T) {
	cfg := domain.ResolveSettings(map[string]string{"clientIpHeader": "X-Real-IP"})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.2")
	r.Header.Set("CF-Connecting-IP", "203.0.113.7")

	if got := ClientAddress(r, cfg); got != "198.51.100.2" {
		t.Fatalf("expected configured header to win, got %q", got)
	}
}

func TestClientAddress_TrimsSurroundingSpace(t *testing.T) {
	cfg := domain.DefaultSettings()

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("CF-Connecting-IP", "  1.2.3.4  ")

	if got := ClientAddress(r, cfg); got != "1.2.3.4" {
		t.Fatalf("expected trimmed address, got %q", got)
	}
}

func TestClientAddress_EmptyForMissingOrGarbage(t *testing.T) {
	cfg := domain.DefaultSettings()

	// header ausente
	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	if got := ClientAddress(r, cfg); got != "" {
		t.Fatalf("expected empty for missing header, got %q", got)
	}

	for _, v := range []string{"not-an-ip", "999.1.1.1", "1.2.3.4:8080", "<script>"} {
		r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
		r.Header.Set("CF-Connecting-IP", v)
		if got := ClientAddress(r, cfg); got != "" {
			t.Fatalf("expected empty for %q, got %q", v, got)
		}
	}
}

func TestClientAddress_AcceptsIPv6(t *testing.T) {
	cfg := domain.DefaultSettings()

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("CF-Connecting-IP", "2001:db8::1")

	if got := ClientAddress(r, cfg); got != "2001:db8::1" {
		t.Fatalf("expected IPv6 address to pass, got %q", got)
	}
}
