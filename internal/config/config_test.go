package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 8050 {
		t.Errorf("Port = %d, want 8050", cfg.Server.Port)
	}
	if cfg.Server.Debug {
		t.Error("Debug should default to false")
	}
	if cfg.Data.Source != DefaultDataSource {
		t.Errorf("Source = %q, want default URL", cfg.Data.Source)
	}
	if cfg.Data.CacheDir != "" {
		t.Errorf("CacheDir = %q, cache should be disabled by default", cfg.Data.CacheDir)
	}
	if cfg.Address() != "127.0.0.1:8050" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if len(cfg.Security.TrustedProxies) != 0 {
		t.Errorf("TrustedProxies = %v, no proxy should be trusted by default", cfg.Security.TrustedProxies)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DEBUG", "true")
	t.Setenv("DATA_SOURCE", "/tmp/sales.csv")
	t.Setenv("DATA_FETCH_TIMEOUT", "5s")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Address() != "0.0.0.0:9000" {
		t.Errorf("Address() = %q, want 0.0.0.0:9000", cfg.Address())
	}
	if !cfg.Server.Debug {
		t.Error("Debug should be true")
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("debug mode should force debug log level, got %q", cfg.Logger.Level)
	}
	if cfg.Data.Source != "/tmp/sales.csv" {
		t.Errorf("Source = %q", cfg.Data.Source)
	}
	if cfg.Data.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.Data.FetchTimeout)
	}
	if len(cfg.Security.AllowedOrigins) != 2 || cfg.Security.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.Security.AllowedOrigins)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.toml")
	content := `
[server]
host = "10.0.0.1"
port = 8080

[data]
source = "data/sales.csv"
cache_dir = ".cache"
cache_ttl = "1h"

[logger]
format = "text"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "10.0.0.1" {
		t.Errorf("Host = %q, want value from file", cfg.Server.Host)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Port = %d, env should override file", cfg.Server.Port)
	}
	if cfg.Data.Source != "data/sales.csv" || cfg.Data.CacheDir != ".cache" {
		t.Errorf("Data = %+v", cfg.Data)
	}
	if cfg.Data.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.Data.CacheTTL)
	}
	if cfg.Logger.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Logger.Format)
	}
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", "[server\nport = 1"},
		{"bad duration", "[data]\ncache_ttl = \"soon\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dashboard.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			t.Setenv("CONFIG_FILE", path)

			if _, err := Load(); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"zero rate limit", "SECURITY_RATE_LIMIT_RPS", "0"},
		{"compression level", "COMPRESSION_LEVEL", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}
