package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SOURCE_URL", "")
	t.Setenv("EXCEL_URL", "")
	t.Setenv("CURRENCY_SYMBOL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("TOP_LIMIT", "")

	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.CurrencySymbol != "₡" {
		t.Errorf("CurrencySymbol = %q, want ₡", cfg.CurrencySymbol)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %v, want 30s", cfg.FetchTimeout)
	}
	if cfg.TopLimit != 10 {
		t.Errorf("TopLimit = %d, want 10", cfg.TopLimit)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SOURCE_URL", "https://example.com/gastos.xlsx")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("TOP_LIMIT", "25")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SourceURL != "https://example.com/gastos.xlsx" {
		t.Errorf("SourceURL = %q", cfg.SourceURL)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.CacheTTL)
	}
	if cfg.TopLimit != 25 {
		t.Errorf("TopLimit = %d, want 25", cfg.TopLimit)
	}
}

func TestLoadLegacySourceVariable(t *testing.T) {
	t.Setenv("SOURCE_URL", "")
	t.Setenv("EXCEL_URL", "https://example.com/legacy.xlsx")

	if cfg := Load(); cfg.SourceURL != "https://example.com/legacy.xlsx" {
		t.Errorf("SourceURL = %q, want legacy EXCEL_URL value", cfg.SourceURL)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("TOP_LIMIT", "many")

	cfg := Load()

	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want default on malformed value", cfg.CacheTTL)
	}
	if cfg.TopLimit != 10 {
		t.Errorf("TopLimit = %d, want default on malformed value", cfg.TopLimit)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "8081",
			SourceURL:      "https://example.com/gastos.xlsx",
			CurrencySymbol: "₡",
			CacheTTL:       5 * time.Minute,
			FetchTimeout:   30 * time.Second,
			TopLimit:       10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port not a number", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "must be between"},
		{"missing source", func(c *Config) { c.SourceURL = "" }, "source URL cannot be empty"},
		{"ttl too short", func(c *Config) { c.CacheTTL = 100 * time.Millisecond }, "cache TTL"},
		{"ttl too long", func(c *Config) { c.CacheTTL = 48 * time.Hour }, "at most 24 hours"},
		{"timeout too short", func(c *Config) { c.FetchTimeout = 0 }, "fetch timeout"},
		{"top limit zero", func(c *Config) { c.TopLimit = 0 }, "top limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	cfg := &Config{Port: "abc", SourceURL: "", CacheTTL: 0, FetchTimeout: 0, TopLimit: 0}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() must fail")
	}
	if got := strings.Count(err.Error(), "\n- "); got < 4 {
		t.Errorf("expected every violation reported, got %d lines: %v", got, err)
	}
}
