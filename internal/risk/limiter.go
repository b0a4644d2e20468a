// Package risk enforces the daily and concurrent exposure limits that
// gate whether a detected opportunity may be executed.
package risk

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// MaxOpenArbs caps the fully filled arbitrages recorded this session
	// (the count is never decremented).
	MaxOpenArbs = 5
	// MaxDailyLossCents is the daily drawdown floor, in cents.
	MaxDailyLossCents = 500
	// MaxDailyOrders caps the number of orders placed in a UTC day.
	MaxDailyOrders = 50
)

// BlockReason names which limit rejected an opportunity.
type BlockReason string

const (
	ReasonNone           BlockReason = ""
	ReasonMaxOpenArbs    BlockReason = "MAX_OPEN_ARBS"
	ReasonMaxDailyLoss   BlockReason = "MAX_DAILY_LOSS"
	ReasonMaxDailyOrders BlockReason = "MAX_DAILY_ORDERS"
)

// Status is a point-in-time snapshot for logging and the status endpoint.
type Status struct {
	OpenArbs      int
	DailyPnLCents int64
	DailyOrders   int
	Today         string
}

// Limiter tracks open positions and today's P&L/order count and
// decides whether a new opportunity may be executed. The configured
// max_open_positions value is advisory only — the thresholds here are
// the enforced limits, per the Open Questions decision in DESIGN.md.
type Limiter struct {
	mu            sync.Mutex
	logger        *zap.Logger
	openArbs      int
	dailyPnLCents int64
	dailyOrders   int
	today         string
}

// New builds a Limiter with zeroed counters, dated to the current UTC day.
func New(logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{logger: logger, today: utcDate(time.Now())}
}

func utcDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// rolloverLocked resets daily_pnl_cents and daily_orders when the UTC
// date has advanced since the last check; open_arbs survives rollover,
// since an arb may remain open across midnight. Caller must hold mu.
func (l *Limiter) rolloverLocked(now time.Time) {
	today := utcDate(now)
	if today == l.today {
		return
	}

	l.logger.Info("risk-day-rollover",
		zap.String("prior_day", l.today),
		zap.Int64("prior_daily_pnl_cents", l.dailyPnLCents),
		zap.Int("prior_daily_orders", l.dailyOrders))

	l.dailyPnLCents = 0
	l.dailyOrders = 0
	l.today = today
}

// Check reports whether a new opportunity may proceed, performing the
// day rollover first. Call once per opportunity, before execution.
func (l *Limiter) Check() (BlockReason, Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked(time.Now())
	status := l.statusLocked()

	reason := ReasonNone
	switch {
	case l.openArbs >= MaxOpenArbs:
		reason = ReasonMaxOpenArbs
	case l.dailyPnLCents <= -MaxDailyLossCents:
		reason = ReasonMaxDailyLoss
	case l.dailyOrders >= MaxDailyOrders:
		reason = ReasonMaxDailyOrders
	}

	if reason != ReasonNone {
		BlocksTotal.WithLabelValues(string(reason)).Inc()
	}
	return reason, status
}

// RecordOpen bumps open_arbs after an opportunity fully fills.
func (l *Limiter) RecordOpen() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked(time.Now())
	l.openArbs++
	OpenArbs.Set(float64(l.openArbs))
}

// RecordOrders bumps daily_orders by the number of non-api-failure
// legs placed, and daily_pnl_cents by the realized or worst-case delta.
func (l *Limiter) RecordOrders(count int, pnlDeltaCents int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked(time.Now())

	l.dailyOrders += count
	l.dailyPnLCents += pnlDeltaCents

	DailyOrders.Set(float64(l.dailyOrders))
	DailyPnLCents.Set(float64(l.dailyPnLCents))
}

// Status returns the current snapshot without performing a rollover.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statusLocked()
}

func (l *Limiter) statusLocked() Status {
	return Status{
		OpenArbs:      l.openArbs,
		DailyPnLCents: l.dailyPnLCents,
		DailyOrders:   l.dailyOrders,
		Today:         l.today,
	}
}
