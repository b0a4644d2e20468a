package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/storage"
	"github.com/mselser95/bracket-arb/pkg/config"
)

func secondsToDuration(s uint64) time.Duration {
	return time.Duration(s) * time.Second
}

func scanDelay(cfg *config.Config) time.Duration {
	ms := cfg.Scanner.ScanDelayMs
	if ms == 0 {
		ms = 150
	}
	return time.Duration(ms) * time.Millisecond
}

func detectorGates(cfg *config.Config) arbitrage.Gates {
	return arbitrage.Gates{
		MinNetProfitCents: cfg.Risk.MinNetProfitCents,
		MinROIPercent:     cfg.MinROIDecimal(),
		PositionSize:      cfg.Risk.PositionSize,
	}
}

// buildStorage always writes the four append-only text sinks under
// data/, and additionally tees into Postgres when [storage].postgres_dsn
// is configured.
func buildStorage(cfg *config.Config, logger *zap.Logger) (storage.Sink, error) {
	fileSink, err := storage.NewFileSink("data", logger)
	if err != nil {
		return nil, fmt.Errorf("build file sink: %w", err)
	}

	if cfg.Storage.PostgresDSN == "" {
		return fileSink, nil
	}

	pgSink, err := storage.NewPostgresSink(cfg.Storage.PostgresDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("build postgres sink: %w", err)
	}

	return storage.NewTee(fileSink, pgSink), nil
}
