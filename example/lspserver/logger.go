package main

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newLogger writes human-readable logs to out. Standard output carries the
// protocol when serving stdio, so callers pass standard error.
func newLogger(level string, out io.Writer) zerolog.Logger {
	lvl, _ := parseLevel(level)
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "lspserver").Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "", "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

// zerologAdapter satisfies lsp.Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (z zerologAdapter) Debug(msg string, args ...any) { z.logger.Debug().Fields(args).Msg(msg) }
func (z zerologAdapter) Info(msg string, args ...any)  { z.logger.Info().Fields(args).Msg(msg) }
func (z zerologAdapter) Warn(msg string, args ...any)  { z.logger.Warn().Fields(args).Msg(msg) }
func (z zerologAdapter) Error(msg string, args ...any) { z.logger.Error().Fields(args).Msg(msg) }
