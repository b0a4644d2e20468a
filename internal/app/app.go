// Package app wires together the signed exchange client, detector,
// executor, risk limiter, series cache, storage sinks, optional alert
// and status server, and the scheduler that drives them, into one
// runnable application.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/alert"
	"github.com/mselser95/bracket-arb/internal/execution"
	"github.com/mselser95/bracket-arb/internal/kalshi"
	"github.com/mselser95/bracket-arb/internal/risk"
	"github.com/mselser95/bracket-arb/internal/scheduler"
	"github.com/mselser95/bracket-arb/internal/series"
	"github.com/mselser95/bracket-arb/internal/storage"
	"github.com/mselser95/bracket-arb/pkg/cache"
	"github.com/mselser95/bracket-arb/pkg/config"
	"github.com/mselser95/bracket-arb/pkg/healthprobe"
	"github.com/mselser95/bracket-arb/pkg/httpserver"
)

// App is the application's runtime: every long-lived component plus
// the scheduler that drives the scan cycle.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	statusServer  *httpserver.Server
	scheduler     *scheduler.Scheduler
	storage       storage.Sink

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds an App from cfg: it loads the signing key, constructs the
// exchange client, storage sinks, risk limiter, series cache, detector
// gates, executor, optional alert sink and status server, and the
// scheduler that ties them together. A missing or unparsable signing
// key, or a Postgres connection failure, aborts construction.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	client, err := kalshi.NewClient(kalshi.Config{
		BaseURL:    cfg.Kalshi.BaseURL,
		RSAKeyPath: cfg.Kalshi.RSAKeyPath,
		APIKeyID:   cfg.APIKeyID,
		ReadDelay:  scanDelay(cfg),
		Logger:     logger,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	healthChecker := healthprobe.New()

	marketCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	seriesCache := series.New(series.Config{
		Client: client,
		Store:  marketCache,
		TTL:    secondsToDuration(cfg.Scanner.SeriesCacheSecs),
		Logger: logger,
	})

	sink, err := buildStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	limiter := risk.New(logger)
	executor := execution.New(client, logger)

	var alertSink *alert.Sink
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		alertSink = alert.NewFromEnv(logger)
	}

	var statusServer *httpserver.Server
	if cfg.Status.ListenAddr != "" {
		statusServer = httpserver.New(&httpserver.Config{
			Addr:          cfg.Status.ListenAddr,
			Logger:        logger,
			HealthChecker: healthChecker,
			RiskLimiter:   limiter,
		})
	}

	sched := scheduler.New(scheduler.Config{
		Client:       client,
		SeriesCache:  seriesCache,
		Sink:         sink,
		Alert:        alertSink,
		Executor:     executor,
		RiskLimiter:  limiter,
		Logger:       logger,
		Interval:     secondsToDuration(cfg.Scanner.IntervalSecs),
		SeriesFilter: cfg.Scanner.SeriesFilter,
		MinBrackets:  cfg.Scanner.MinBrackets,
		MaxBrackets:  cfg.Scanner.MaxBrackets,
		Gates:        detectorGates(cfg),
		DryRun:       cfg.DryRun,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		statusServer:  statusServer,
		scheduler:     sched,
		storage:       sink,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}
