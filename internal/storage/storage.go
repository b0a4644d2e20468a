// Package storage persists opportunities, trades, scan summaries, and
// reconciliation results to append-only text files, optionally teed to
// Postgres.
package storage

import (
	"context"

	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/kalshi"
)

// FilledOrder pairs a bracket ticker with the order the exchange
// returned for it, for reconciliation logging.
type FilledOrder struct {
	Ticker string
	Order  kalshi.Order
}

// Sink is the interface every persistence backend implements.
type Sink interface {
	LogOpportunity(ctx context.Context, opp arbitrage.Opportunity, executed bool) error
	LogTrade(ctx context.Context, opp arbitrage.Opportunity, ticker string, order kalshi.Order, positionSize int64) error
	LogScan(ctx context.Context, seriesCount, eventsCount, opportunities, trades int) error
	LogReconciliation(ctx context.Context, opp arbitrage.Opportunity, filled []FilledOrder, incomplete bool) error
	Close() error
}
