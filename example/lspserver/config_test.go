package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
listen = "127.0.0.1:7000"
max_content_length = 1024
idle_timeout = "2m"
request_timeout = "1500ms"
rate_limit = 20.5
rate_burst = 5
log_level = "debug"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:7000" || cfg.MaxContentLength != 1024 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.IdleTimeout != 2*time.Minute || cfg.RequestTimeout != 1500*time.Millisecond {
		t.Errorf("timeouts = %v, %v", cfg.IdleTimeout, cfg.RequestTimeout)
	}
	if cfg.ShutdownTimeout != DefaultConfig().ShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want the default for a key left out", cfg.ShutdownTimeout)
	}
	if cfg.RateLimit != 20.5 || cfg.RateBurst != 5 || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_ZeroValuesOverride(t *testing.T) {
	path := writeConfig(t, `
request_timeout = "0s"
rate_burst = 0
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.RequestTimeout != 0 || cfg.RateBurst != 0 {
		t.Errorf("explicit zero values were ignored: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
listen = "127.0.0.1:7000"
log_level = "debug"
`)
	t.Setenv(EnvListen, "")
	t.Setenv(EnvLogLevel, " warn ")
	t.Setenv(EnvMetricsAddr, ":9100")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Listen != "" {
		t.Errorf("Listen = %q, want stdio after an empty override", cfg.Listen)
	}
	if cfg.LogLevel != "warn" || cfg.MetricsAddr != ":9100" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", `listen = `},
		{"bad duration", `idle_timeout = "soon"`},
		{"negative timeout", `shutdown_timeout = "-1s"`},
		{"zero content length", `max_content_length = 0`},
		{"negative rate", `rate_limit = -1.0`},
		{"rate without burst", "rate_limit = 10.0\nrate_burst = 0"},
		{"unknown level", `log_level = "chatty"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
