package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROMO_ITEMS", "")
	t.Setenv("SEARCH_PAGE_SIZE", "10")
	t.Setenv("SEARCH_LATENCY", "500ms")
	t.Setenv("UPLOAD_LATENCY", "1s")
	t.Setenv("PROMO_HOSTS", "localhost,127.0.0.1")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetPageSize() != 10 {
		t.Fatalf("expected page size 10, got %d", cfg.GetPageSize())
	}
	if cfg.GetSearchLatency() != 500*time.Millisecond {
		t.Fatalf("expected search latency 500ms, got %s", cfg.GetSearchLatency())
	}
	if cfg.GetUploadLatency() != time.Second {
		t.Fatalf("expected upload latency 1s, got %s", cfg.GetUploadLatency())
	}
	if len(cfg.GetPromoItems()) != len(defaultPromoItems) {
		t.Fatalf("expected default promo items, got %v", cfg.GetPromoItems())
	}
	if len(cfg.GetPromoHosts()) != 2 {
		t.Fatalf("expected 2 promo hosts, got %v", cfg.GetPromoHosts())
	}
}

func TestLoadRejectsBadPageSize(t *testing.T) {
	t.Setenv("SEARCH_PAGE_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for page size 0")
	}
}

func TestLoadRejectsBadLatency(t *testing.T) {
	t.Setenv("SEARCH_PAGE_SIZE", "10")
	t.Setenv("SEARCH_LATENCY", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable latency")
	}
}

func TestWildcardOriginAllowsAll(t *testing.T) {
	t.Setenv("SEARCH_PAGE_SIZE", "10")
	t.Setenv("SEARCH_LATENCY", "0s")
	t.Setenv("UPLOAD_LATENCY", "0s")
	t.Setenv("CORS_ORIGINS", "http://a.example, *")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatal("expected wildcard origin to enable allow-all")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,, c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLoadRejectsEmptyOrigins(t *testing.T) {
	t.Setenv("SEARCH_PAGE_SIZE", "10")
	t.Setenv("SEARCH_LATENCY", "0s")
	t.Setenv("UPLOAD_LATENCY", "0s")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", " , ")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when no CORS origin is configured")
	}
}
