package config

import (
	"testing"
	"time"
)

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Fatalf("empty input: want nil, got %v", got)
	}

	got := parseOrigins(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("API_BASE_URL", "http://data.test/api/")
	t.Setenv("SESSION_TTL_MINUTES", "not-a-number")

	cfg := Load()
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.APIBaseURL != "http://data.test/api" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want fallback 1h", cfg.SessionTTL)
	}
}

func TestLoadLocation(t *testing.T) {
	if loadLocation("") != time.Local {
		t.Error("empty zone should resolve to time.Local")
	}
	if loadLocation("Not/AZone") != time.Local {
		t.Error("unknown zone should resolve to time.Local")
	}
	if loc := loadLocation("UTC"); loc.String() != "UTC" {
		t.Errorf("UTC zone resolved to %s", loc)
	}
}

func TestRateLimitKey(t *testing.T) {
	if got := NewCacheKeyStruct().RateLimitKey("10.0.0.1", 42); got != "ratelimit:10.0.0.1:42" {
		t.Errorf("RateLimitKey = %q", got)
	}
}
