package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/execution"
	"github.com/mselser95/bracket-arb/internal/kalshi"
	"github.com/mselser95/bracket-arb/internal/risk"
	"github.com/mselser95/bracket-arb/internal/storage"
)

// scanCycle runs one full pass: series -> events -> order books ->
// detector -> risk gate -> executor -> reconciliation.
func (s *Scheduler) scanCycle(ctx context.Context) error {
	start := time.Now()
	defer func() { ScanCycleDurationSeconds.Observe(time.Since(start).Seconds()) }()

	seriesList, err := s.cfg.SeriesCache.Get(ctx)
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}

	allowed := seriesFilterSet(s.cfg.SeriesFilter)

	var eventsSeen, opportunitiesSeen, tradesPlaced int

	for _, ser := range seriesList {
		if len(allowed) > 0 && !allowed[ser.Ticker] {
			continue
		}

		events, err := s.cfg.Client.GetEvents(ctx, ser.Ticker)
		if err != nil {
			s.logger.Warn("events-fetch-failed", zap.String("series", ser.Ticker), zap.Error(err))
			continue
		}

		for _, ev := range events {
			eventsSeen++
			opps, trades, err := s.handleEvent(ctx, ev)
			if err != nil {
				s.logger.Warn("event-scan-failed",
					zap.String("event", ev.EventTicker), zap.Error(err))
				continue
			}
			opportunitiesSeen += opps
			tradesPlaced += trades
		}
	}

	if s.cfg.Sink != nil {
		if err := s.cfg.Sink.LogScan(ctx, len(seriesList), eventsSeen, opportunitiesSeen, tradesPlaced); err != nil {
			s.logger.Warn("scan-log-failed", zap.Error(err))
		}
	}

	return nil
}

func seriesFilterSet(filter []string) map[string]bool {
	if len(filter) == 0 {
		return nil
	}
	set := make(map[string]bool, len(filter))
	for _, t := range filter {
		set[t] = true
	}
	return set
}

// handleEvent gates an event structurally, fetches every active
// bracket's order book sequentially, and evaluates/executes detected
// opportunities. It returns the count of opportunities found and
// trades placed in this event.
func (s *Scheduler) handleEvent(ctx context.Context, ev kalshi.Event) (opportunities, trades int, err error) {
	if !ev.MutuallyExclusive {
		EventsSkippedTotal.WithLabelValues("not_mutually_exclusive").Inc()
		return 0, 0, nil
	}

	active := activeMarkets(ev.Markets)
	if len(active) < s.cfg.MinBrackets || len(active) > s.cfg.MaxBrackets {
		EventsSkippedTotal.WithLabelValues("bracket_count").Inc()
		return 0, 0, nil
	}

	brackets := make([]arbitrage.BracketQuote, 0, len(active))
	for _, m := range active {
		ob, err := s.cfg.Client.GetOrderbook(ctx, m.Ticker)
		if err != nil {
			return 0, 0, fmt.Errorf("orderbook %s: %w", m.Ticker, err)
		}

		q, ok := arbitrage.QuoteFromOrderbook(m.Ticker, m.Title, ob)
		if !ok {
			// Empty NO side: the whole event is skipped, no partial
			// quote set is ever evaluated.
			EventsSkippedTotal.WithLabelValues("empty_no_side").Inc()
			return 0, 0, nil
		}
		brackets = append(brackets, q)
	}

	opps := arbitrage.Evaluate(ev.EventTicker, ev.Title, brackets, s.cfg.Gates)
	for _, opp := range opps {
		opportunities++
		filled, err := s.handleOpportunity(ctx, opp)
		if err != nil {
			s.logger.Warn("opportunity-handling-failed",
				zap.String("event", ev.EventTicker), zap.Error(err))
			continue
		}
		trades += filled
	}

	return opportunities, trades, nil
}

func activeMarkets(markets []kalshi.Market) []kalshi.Market {
	out := make([]kalshi.Market, 0, len(markets))
	for _, m := range markets {
		if m.Status == activeStatus {
			out = append(out, m)
		}
	}
	return out
}

// handleOpportunity logs every detected opportunity, and in non-dry-run
// mode gates it through the risk limiter, executes it, reconciles it,
// and records its consequences back into the limiter. It returns the
// number of legs actually filled, counted only when every leg filled.
func (s *Scheduler) handleOpportunity(ctx context.Context, opp arbitrage.Opportunity) (filled int, err error) {
	if s.cfg.DryRun {
		s.logSink(ctx, func() error { return s.cfg.Sink.LogOpportunity(ctx, opp, false) })
		s.logger.Info("opportunity-detected-dry-run",
			zap.String("event", opp.EventTicker), zap.String("direction", opp.Direction.String()),
			zap.Int64("net_profit_cents", opp.NetProfitCents))
		return 0, nil
	}

	reason, status := s.cfg.RiskLimiter.Check()
	if reason != risk.ReasonNone {
		s.alertf(ctx, "blocked opportunity on *%s*: reason=%s open_arbs=%d daily_pnl=%d daily_orders=%d",
			opp.EventTicker, reason, status.OpenArbs, status.DailyPnLCents, status.DailyOrders)
		s.logSink(ctx, func() error { return s.cfg.Sink.LogOpportunity(ctx, opp, false) })
		return 0, nil
	}

	s.logSink(ctx, func() error { return s.cfg.Sink.LogOpportunity(ctx, opp, true) })

	result := s.cfg.Executor.Execute(ctx, opp)

	s.recordOutcome(ctx, result)
	s.logTrades(ctx, opp, result)
	s.logReconciliation(ctx, opp, result)

	if result.Outcome == execution.FullyFilled {
		return result.FilledCount, nil
	}
	return 0, nil
}

func (s *Scheduler) recordOutcome(ctx context.Context, r execution.Result) {
	s.cfg.RiskLimiter.RecordOrders(r.OrdersPlaced(), pnlDelta(r))

	switch r.Outcome {
	case execution.FullyFilled:
		s.cfg.RiskLimiter.RecordOpen()
	case execution.Mixed:
		s.alertf(ctx, "partial fill on *%s*: filled=%d resting=%d other=%d api_failures=%d worst_case_loss=%d¢",
			r.Opportunity.EventTicker, r.FilledCount, r.RestingCount, r.OtherCount, r.ApiFailureCount, r.WorstCaseLossCents)
	case execution.TotalFailure:
		s.alertf(ctx, "total failure on *%s*: every leg failed to place", r.Opportunity.EventTicker)
	}
}

// pnlDelta is the daily P&L contribution of one executed opportunity:
// the opportunity's expected net when fully filled, or the negative
// worst-case loss of unhedged filled legs when mixed.
func pnlDelta(r execution.Result) int64 {
	switch r.Outcome {
	case execution.FullyFilled:
		return r.Opportunity.NetProfitCents
	case execution.Mixed:
		return -r.WorstCaseLossCents
	default:
		return 0
	}
}

func (s *Scheduler) logTrades(ctx context.Context, opp arbitrage.Opportunity, r execution.Result) {
	if s.cfg.Sink == nil {
		return
	}
	for _, leg := range r.Legs {
		if leg.State == execution.ApiFailure {
			continue
		}
		if err := s.cfg.Sink.LogTrade(ctx, opp, leg.Ticker, leg.Order, opp.PositionSize()); err != nil {
			s.logger.Warn("trade-log-failed", zap.Error(err))
		}
	}
}

func (s *Scheduler) logReconciliation(ctx context.Context, opp arbitrage.Opportunity, r execution.Result) {
	if s.cfg.Sink == nil || r.Outcome == execution.TotalFailure {
		return
	}

	filled := make([]storage.FilledOrder, 0, r.FilledCount)
	for _, leg := range r.Legs {
		if leg.State == execution.Filled {
			filled = append(filled, storage.FilledOrder{Ticker: leg.Ticker, Order: leg.Order})
		}
	}

	incomplete := r.Outcome != execution.FullyFilled
	if err := s.cfg.Sink.LogReconciliation(ctx, opp, filled, incomplete); err != nil {
		s.logger.Warn("reconciliation-log-failed", zap.Error(err))
	}
}

func (s *Scheduler) logSink(ctx context.Context, fn func() error) {
	if s.cfg.Sink == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.Warn("opportunity-log-failed", zap.Error(err))
	}
}

func (s *Scheduler) alertf(ctx context.Context, format string, args ...interface{}) {
	if s.cfg.Alert == nil {
		return
	}
	s.cfg.Alert.Send(ctx, fmt.Sprintf(format, args...))
}
