// Command lspserver is a small language server built on the lsp package. It
// keeps open documents in memory and answers hover with the word under the
// cursor. It serves one session over stdio, or many over TCP when a listen
// address is configured.
package main

import (
	"context"
	"flag"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zereker/lsp"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fallback := newLogger("info", os.Stderr)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	base := newLogger(cfg.LogLevel, os.Stderr)
	if envErr != nil && !os.IsNotExist(envErr) {
		base.Warn().Err(envErr).Msg("could not load .env")
	}
	logger := zerologAdapter{logger: base}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, logger)
	}

	// One method table for every session.
	dispatcher := lsp.NewDefaultDispatcher()

	if cfg.Listen == "" {
		os.Exit(serveStdio(ctx, cfg, dispatcher, base))
	}
	if err := serveTCP(ctx, cfg, dispatcher, base); err != nil {
		base.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

// connOptions builds the options of one session's connection.
func connOptions(cfg Config, dispatcher *lsp.Dispatcher, logger lsp.Logger, sess *session) []lsp.Option {
	middlewares := []lsp.Middleware{
		lsp.RecoverMiddleware(logger),
		lsp.LoggingMiddleware(logger),
		metricsMiddleware(),
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, lsp.RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	}
	if cfg.RequestTimeout > 0 {
		middlewares = append(middlewares, lsp.TimeoutMiddleware(cfg.RequestTimeout))
	}

	return []lsp.Option{
		lsp.HandlerOption(sess),
		lsp.MiddlewareOption(middlewares...),
		lsp.DispatcherOption(dispatcher),
		lsp.LoggerOption(logger),
		lsp.MessageMaxSize(cfg.MaxContentLength),
		lsp.IdleTimeoutOption(cfg.IdleTimeout),
	}
}

// serveSession runs one session over rwc until it ends and returns the
// session's exit code.
func serveSession(ctx context.Context, rwc io.ReadWriteCloser, cfg Config, dispatcher *lsp.Dispatcher, base zerolog.Logger) int {
	id := uuid.NewString()
	logger := zerologAdapter{logger: base.With().Str("session", id).Logger()}
	sess := newSession(logger)

	conn, err := lsp.NewConn(rwc, connOptions(cfg, dispatcher, logger, sess)...)
	if err != nil {
		logger.Error("create connection", "error", err)
		_ = rwc.Close()
		return 1
	}

	registerMetrics()
	sessionsActive.Inc()
	defer sessionsActive.Dec()

	if err := conn.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session ended", "error", err)
	}
	return sess.ExitCode()
}

func serveStdio(ctx context.Context, cfg Config, dispatcher *lsp.Dispatcher, base zerolog.Logger) int {
	return serveSession(ctx, lsp.Stdio(), cfg, dispatcher, base)
}

func serveTCP(ctx context.Context, cfg Config, dispatcher *lsp.Dispatcher, base zerolog.Logger) error {
	addr, err := net.ResolveTCPAddr("tcp", cfg.Listen)
	if err != nil {
		return err
	}

	server, err := lsp.New(addr,
		lsp.ServerLoggerOption(zerologAdapter{logger: base}),
		lsp.ServerShutdownTimeoutOption(cfg.ShutdownTimeout),
	)
	if err != nil {
		return err
	}

	err = server.Serve(ctx, lsp.StreamHandlerFunc(func(ctx context.Context, nc net.Conn) {
		serveSession(ctx, nc, cfg, dispatcher, base)
	}))
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
