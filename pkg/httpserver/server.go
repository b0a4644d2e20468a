// Package httpserver exposes the optional read-only status endpoints:
// /healthz, /readyz, /metrics, and /status. It is only started when
// [status].listen_addr is non-empty.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/risk"
	"github.com/mselser95/bracket-arb/pkg/healthprobe"
)

// Server provides HTTP endpoints for metrics, health checks, and a
// snapshot of the risk limiter's counters.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
type Config struct {
	Addr          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker
	RiskLimiter   *risk.Limiter
}

// New creates a new HTTP server listening on cfg.Addr.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", cfg.HealthChecker.Health())
	r.Get("/readyz", cfg.HealthChecker.Ready())
	r.Get("/status", statusHandler(cfg.RiskLimiter))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		server:        server,
		logger:        logger,
		healthChecker: cfg.HealthChecker,
	}
}

// statusHandler reports the risk limiter's current counters; it reads
// concurrently with the scan-cycle owner, which is why risk.Limiter
// guards its state with a mutex.
func statusHandler(limiter *risk.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if limiter == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(risk.Status{})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(limiter.Status())
	}
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
