package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/kalshi"
)

const timeLayout = "2006-01-02T15:04:05Z"

// FileSink appends pipe-delimited markdown-table rows to four files
// under a data directory: opportunities.md, trades.md, scans.md, and
// reconciliation.md. Row shapes are grounded on the original bot's
// append_line-based logging, one file per event kind.
type FileSink struct {
	dir    string
	logger *zap.Logger

	mu sync.Mutex
}

// NewFileSink builds a FileSink rooted at dir (created if missing).
func NewFileSink(dir string, logger *zap.Logger) (*FileSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

func (f *FileSink) appendLine(name, line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return nil
}

func dollars(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

// LogOpportunity appends one row per detected opportunity.
func (f *FileSink) LogOpportunity(_ context.Context, opp arbitrage.Opportunity, executed bool) error {
	executedStr := "NO"
	if executed {
		executedStr = "YES"
	}

	line := fmt.Sprintf("| %s | %s | %s | %d | $%s | $%s | $%s | %s%% | %s |",
		time.Now().UTC().Format(timeLayout),
		opp.EventTicker,
		opp.Direction,
		len(opp.Brackets),
		dollars(opp.SumCents),
		dollars(opp.TotalFeesCents),
		dollars(opp.NetProfitCents),
		opp.ROIPercent.StringFixed(1),
		executedStr)

	return f.appendLine("opportunities.md", line)
}

// LogTrade appends one row per placed leg.
func (f *FileSink) LogTrade(_ context.Context, opp arbitrage.Opportunity, ticker string, order kalshi.Order, positionSize int64) error {
	side := "BUY_YES"
	if opp.Direction == arbitrage.Short {
		side = "SELL_YES"
	}

	price := order.EffectiveYesPrice()
	fee := arbitrage.FeeCents(positionSize, price)

	line := fmt.Sprintf("| %s | %s | %s | %s | $%s | %d | $%s | %s | %s |",
		time.Now().UTC().Format(timeLayout),
		opp.EventTicker,
		ticker,
		side,
		dollars(price),
		positionSize,
		dollars(fee),
		order.OrderID,
		order.Status)

	return f.appendLine("trades.md", line)
}

// LogScan appends one row per completed scan cycle.
func (f *FileSink) LogScan(_ context.Context, seriesCount, eventsCount, opportunities, trades int) error {
	line := fmt.Sprintf("| %s | %d | %d | %d | %d |",
		time.Now().UTC().Format(timeLayout), seriesCount, eventsCount, opportunities, trades)

	return f.appendLine("scans.md", line)
}

// LogReconciliation appends one row comparing expected to actual net
// profit for the filled legs of one opportunity, per §4.4.
func (f *FileSink) LogReconciliation(_ context.Context, opp arbitrage.Opportunity, filled []FilledOrder, incomplete bool) error {
	orderIDs := make([]string, len(filled))
	statuses := make([]string, len(filled))

	var actualCostOrRevenue, actualFees, positionSize int64
	for i, fo := range filled {
		orderIDs[i] = fo.Order.OrderID
		statuses[i] = fo.Order.Status

		price := fo.Order.EffectiveYesPrice()
		count := fo.Order.EffectiveCount()
		actualCostOrRevenue += price * count
		actualFees += arbitrage.FeeCents(count, price)
		if i == 0 {
			positionSize = count
		}
	}

	var actualNet int64
	if opp.Direction == arbitrage.Short {
		actualNet = actualCostOrRevenue - 100*positionSize - actualFees
	} else {
		actualNet = 100*positionSize - actualCostOrRevenue - actualFees
	}

	expectedNet := opp.NetProfitCents
	slippage := actualNet - expectedNet

	note := ""
	if incomplete {
		note = " (INCOMPLETE)"
	}

	line := fmt.Sprintf("| %s | %s | %s | %s | %s | $%s | $%s | $%s%s |",
		time.Now().UTC().Format(timeLayout),
		opp.EventTicker,
		opp.Direction,
		strings.Join(orderIDs, ", "),
		strings.Join(statuses, ", "),
		dollars(expectedNet),
		dollars(actualNet),
		dollars(slippage),
		note)

	return f.appendLine("reconciliation.md", line)
}

// Close is a no-op; each write opens and closes its own file handle.
func (f *FileSink) Close() error { return nil }
