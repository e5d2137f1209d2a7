package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Environment overrides, applied after the config file and any .env file.
const (
	EnvLogLevel    = "LSP_LOG_LEVEL"
	EnvListen      = "LSP_LISTEN"
	EnvMetricsAddr = "LSP_METRICS_ADDR"
)

// Config holds the runtime settings of the server.
type Config struct {
	// Listen is a TCP address. Empty serves a single session over stdio.
	Listen           string
	MaxContentLength int
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	RequestTimeout   time.Duration
	RateLimit        float64
	RateBurst        int
	LogLevel         string
	MetricsAddr      string
}

func DefaultConfig() Config {
	return Config{
		MaxContentLength: 8 * 1024 * 1024,
		ShutdownTimeout:  5 * time.Second,
		RequestTimeout:   30 * time.Second,
		RateBurst:        50,
		LogLevel:         "info",
	}
}

// config.toml key mapping to Config.
type fileConfig struct {
	Listen           string  `toml:"listen"`
	MaxContentLength int     `toml:"max_content_length"`
	IdleTimeout      string  `toml:"idle_timeout"`
	ShutdownTimeout  string  `toml:"shutdown_timeout"`
	RequestTimeout   string  `toml:"request_timeout"`
	RateLimit        float64 `toml:"rate_limit"`
	RateBurst        int     `toml:"rate_burst"`
	LogLevel         string  `toml:"log_level"`
	MetricsAddr      string  `toml:"metrics_addr"`
}

// loadConfig overlays the file at path, when given, and the environment on
// DefaultConfig.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("max_content_length") {
		cfg.MaxContentLength = raw.MaxContentLength
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("rate_limit") {
		cfg.RateLimit = raw.RateLimit
	}
	if meta.IsDefined("rate_burst") {
		cfg.RateBurst = raw.RateBurst
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"idle_timeout", raw.IdleTimeout, &cfg.IdleTimeout},
		{"shutdown_timeout", raw.ShutdownTimeout, &cfg.ShutdownTimeout},
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return errors.Wrapf(err, "load config: %s", d.key)
		}
		*d.dst = v
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvListen); ok {
		cfg.Listen = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
}

func (c Config) validate() error {
	if c.MaxContentLength <= 0 {
		return errors.Errorf("load config: max_content_length must be positive, got %d", c.MaxContentLength)
	}
	if c.IdleTimeout < 0 || c.ShutdownTimeout < 0 || c.RequestTimeout < 0 {
		return errors.New("load config: timeouts must not be negative")
	}
	if c.RateLimit < 0 {
		return errors.Errorf("load config: rate_limit must not be negative, got %s", strconv.FormatFloat(c.RateLimit, 'f', -1, 64))
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return errors.Errorf("load config: rate_burst must be positive when rate_limit is set, got %d", c.RateBurst)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.Errorf("load config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
