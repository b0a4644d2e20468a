package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/kalshi"
)

// PostgresSink tees opportunity, trade, scan and reconciliation rows
// into Postgres, for
// installs that want queryable history alongside the text-file sinks.
// It is optional, gated by [storage].postgres_dsn.
type PostgresSink struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresSink opens and pings a Postgres connection.
func NewPostgresSink(dsn string, logger *zap.Logger) (*PostgresSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres-sink-connected")
	return &PostgresSink{db: db, logger: logger}, nil
}

// LogOpportunity inserts a summary row for the opportunity.
func (p *PostgresSink) LogOpportunity(ctx context.Context, opp arbitrage.Opportunity, executed bool) error {
	const query = `
		INSERT INTO opportunities (
			id, event_ticker, direction, bracket_count,
			sum_cents, fees_cents, net_profit_cents, roi_percent, executed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	roi, _ := opp.ROIPercent.Float64()
	_, err := p.db.ExecContext(ctx, query,
		opp.ID, opp.EventTicker, string(opp.Direction), len(opp.Brackets),
		opp.SumCents, opp.TotalFeesCents, opp.NetProfitCents, roi, executed)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}
	return nil
}

// LogTrade inserts one row per placed leg.
func (p *PostgresSink) LogTrade(ctx context.Context, opp arbitrage.Opportunity, ticker string, order kalshi.Order, positionSize int64) error {
	const query = `
		INSERT INTO trades (
			opportunity_id, event_ticker, ticker, order_id, status,
			yes_price_cents, position_size
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.db.ExecContext(ctx, query,
		opp.ID, opp.EventTicker, ticker, order.OrderID, order.Status,
		order.EffectiveYesPrice(), positionSize)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// LogScan inserts one row per completed scan cycle.
func (p *PostgresSink) LogScan(ctx context.Context, seriesCount, eventsCount, opportunities, trades int) error {
	const query = `
		INSERT INTO scans (series_count, events_count, opportunities, trades)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.db.ExecContext(ctx, query, seriesCount, eventsCount, opportunities, trades)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// LogReconciliation inserts one row summarizing the filled legs.
func (p *PostgresSink) LogReconciliation(ctx context.Context, opp arbitrage.Opportunity, filled []FilledOrder, incomplete bool) error {
	const query = `
		INSERT INTO reconciliations (
			opportunity_id, event_ticker, direction, order_ids, statuses, incomplete
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	orderIDs := make([]string, len(filled))
	statuses := make([]string, len(filled))
	for i, fo := range filled {
		orderIDs[i] = fo.Order.OrderID
		statuses[i] = fo.Order.Status
	}

	_, err := p.db.ExecContext(ctx, query,
		opp.ID, opp.EventTicker, string(opp.Direction),
		strings.Join(orderIDs, ","), strings.Join(statuses, ","), incomplete)
	if err != nil {
		return fmt.Errorf("insert reconciliation: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (p *PostgresSink) Close() error {
	return p.db.Close()
}
