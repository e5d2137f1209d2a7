package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Zereker/lsp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	commandsHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lspserver",
			Subsystem: "commands",
			Name:      "handled_total",
			Help:      "Commands handled, by method and outcome.",
		},
		[]string{"method", "outcome"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lspserver",
			Subsystem: "commands",
			Name:      "duration_seconds",
			Help:      "Command handling duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lspserver",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Sessions currently connected.",
		},
	)
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(commandsHandled, commandDuration, sessionsActive)
	})
}

func outcomeOf(resp lsp.Response) string {
	switch {
	case resp == nil:
		return "notification"
	case lsp.ErrorOf(resp) != nil:
		return "error"
	default:
		return "ok"
	}
}

func metricsMiddleware() lsp.Middleware {
	registerMetrics()
	return func(next lsp.HandlerFunc) lsp.HandlerFunc {
		return func(ctx context.Context, cmd lsp.Command) lsp.Response {
			start := time.Now()
			resp := next(ctx, cmd)
			commandsHandled.WithLabelValues(cmd.Method(), outcomeOf(resp)).Inc()
			commandDuration.WithLabelValues(cmd.Method()).Observe(time.Since(start).Seconds())
			return resp
		}
	}
}

// serveMetrics exposes /metrics on addr until ctx is canceled.
func serveMetrics(ctx context.Context, addr string, logger lsp.Logger) {
	registerMetrics()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server", "error", err)
	}
}
