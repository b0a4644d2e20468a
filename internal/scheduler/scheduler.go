// Package scheduler runs the periodic scan cycle: list series, page
// events, fetch order books, evaluate arbitrage, and execute and
// reconcile whatever clears the risk gate.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/alert"
	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/execution"
	"github.com/mselser95/bracket-arb/internal/kalshi"
	"github.com/mselser95/bracket-arb/internal/risk"
	"github.com/mselser95/bracket-arb/internal/series"
	"github.com/mselser95/bracket-arb/internal/storage"
)

const activeStatus = "active"

// Client is the subset of the exchange client a scan cycle needs.
type Client interface {
	GetEvents(ctx context.Context, seriesTicker string) ([]kalshi.Event, error)
	GetOrderbook(ctx context.Context, marketTicker string) (kalshi.Orderbook, error)
}

// Config configures a Scheduler.
type Config struct {
	Client       Client
	SeriesCache  *series.Cache
	Sink         storage.Sink
	Alert        *alert.Sink
	Executor     *execution.Executor
	RiskLimiter  *risk.Limiter
	Logger       *zap.Logger

	Interval     time.Duration
	SeriesFilter []string // empty = all
	MinBrackets  int
	MaxBrackets  int
	Gates        arbitrage.Gates
	DryRun       bool
}

// Scheduler owns the main loop and one in-flight scan cycle at a time.
type Scheduler struct {
	cfg     Config
	logger  *zap.Logger
	running atomic.Bool
	stop    chan struct{}
}

// New builds a Scheduler from cfg, applying defaults.
func New(cfg Config) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MinBrackets == 0 {
		cfg.MinBrackets = 2
	}
	if cfg.MaxBrackets == 0 {
		cfg.MaxBrackets = 15
	}
	return &Scheduler{cfg: cfg, logger: cfg.Logger, stop: make(chan struct{})}
}

// Run blocks, running scan cycles at cfg.Interval until ctx is
// canceled. Shutdown is observed at 1-second granularity between
// cycles so an in-flight cycle always runs to completion.
func (s *Scheduler) Run(ctx context.Context) {
	s.running.Store(true)
	for s.running.Load() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.scanCycle(ctx); err != nil {
			s.logger.Warn("scan-cycle-error", zap.Error(err))
		}

		if !s.sleepInterval(ctx) {
			return
		}
	}
}

// Stop flips the running flag; the current or next sleep will exit.
func (s *Scheduler) Stop() {
	s.running.Store(false)
}

func (s *Scheduler) sleepInterval(ctx context.Context) bool {
	remaining := s.cfg.Interval
	for remaining > 0 {
		if !s.running.Load() {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(minDuration(remaining, time.Second)):
			remaining -= time.Second
		}
	}
	return true
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
