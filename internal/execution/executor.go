// Package execution places the legs of a detected opportunity, classifies
// what the exchange actually did, and reconciles the result against the
// opportunity's expected economics.
package execution

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/kalshi"
)

// LegState is the classification of one awaited order placement.
type LegState string

const (
	Filled     LegState = "filled"
	Resting    LegState = "resting"
	Other      LegState = "other"
	ApiFailure LegState = "api_failure"
)

// LegResult is the outcome of dispatching one bracket's order.
type LegResult struct {
	Ticker string
	State  LegState
	Order  kalshi.Order
	Err    error
}

// Outcome is the aggregate classification of an executed opportunity.
type Outcome string

const (
	FullyFilled  Outcome = "fully_filled"
	TotalFailure Outcome = "total_failure"
	Mixed        Outcome = "mixed"
)

// Result aggregates every leg's outcome for one opportunity.
type Result struct {
	Opportunity        arbitrage.Opportunity
	Legs               []LegResult
	Outcome            Outcome
	FilledCount        int
	RestingCount       int
	OtherCount         int
	ApiFailureCount    int
	CanceledOrderIDs   []string
	CancelErrors       []error
	WorstCaseLossCents int64 // only set for Mixed
	ReconciledNetCents int64 // only set when every bracket filled
	SlippageCents      int64 // actual - expected, only set when reconciled
	Reconciled         bool
}

// OrdersPlaced is the quota-consuming order count for the risk
// limiter: api_failures never consume daily order quota.
func (r Result) OrdersPlaced() int {
	return r.FilledCount + r.RestingCount + r.OtherCount
}

// OrderPlacer is the subset of the exchange client the executor needs;
// satisfied by *kalshi.Client and by test doubles.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req kalshi.CreateOrderRequest) (kalshi.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// Executor places and reconciles the legs of one opportunity at a time.
type Executor struct {
	client OrderPlacer
	logger *zap.Logger
}

// New builds an Executor.
func New(client OrderPlacer, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{client: client, logger: logger}
}

// Execute dispatches one create_order per bracket simultaneously —
// every goroutine is launched before any is awaited — then classifies
// and reconciles the result.
func (e *Executor) Execute(ctx context.Context, opp arbitrage.Opportunity) Result {
	start := time.Now()
	defer func() {
		ExecutionDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	type dispatch struct {
		ticker string
		result chan LegResult
	}

	dispatches := make([]dispatch, len(opp.Brackets))
	for i, b := range opp.Brackets {
		d := dispatch{ticker: b.Ticker, result: make(chan LegResult, 1)}
		dispatches[i] = d
		go e.placeLeg(ctx, opp.Direction, b, opp.PositionSize(), d.result)
	}

	legs := make([]LegResult, len(dispatches))
	for i, d := range dispatches {
		legs[i] = <-d.result
	}

	result := classify(opp, legs)
	e.react(ctx, &result)
	return result
}

func (e *Executor) placeLeg(ctx context.Context, dir arbitrage.Direction, b arbitrage.BracketQuote, size int64, out chan<- LegResult) {
	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("leg-placement-panicked",
				zap.String("ticker", b.Ticker), zap.Any("panic", p))
			out <- LegResult{Ticker: b.Ticker, State: ApiFailure, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	req := legRequest(dir, b, size)
	order, err := e.client.CreateOrder(ctx, req)
	if err != nil {
		e.logger.Warn("leg-placement-failed", zap.String("ticker", b.Ticker), zap.Error(err))
		out <- LegResult{Ticker: b.Ticker, State: ApiFailure, Err: err}
		return
	}

	out <- LegResult{Ticker: b.Ticker, State: classifyOrder(order), Order: order}
}

// legRequest builds the create_order body for one bracket per §4.4.
func legRequest(dir arbitrage.Direction, b arbitrage.BracketQuote, size int64) kalshi.CreateOrderRequest {
	switch dir {
	case arbitrage.Short:
		return kalshi.CreateOrderRequest{
			Ticker:    b.Ticker,
			Action:    kalshi.ActionSell,
			Side:      kalshi.SideYes,
			OrderType: kalshi.OrderTypeLimit,
			Count:     size,
			YesPrice:  kalshi.Int64Ptr(b.YesBidCents),
		}
	default: // Long
		return kalshi.CreateOrderRequest{
			Ticker:    b.Ticker,
			Action:    kalshi.ActionBuy,
			Side:      kalshi.SideYes,
			OrderType: kalshi.OrderTypeLimit,
			Count:     size,
			YesPrice:  kalshi.Int64Ptr(b.YesAskCents),
		}
	}
}

func classifyOrder(o kalshi.Order) LegState {
	switch o.Status {
	case kalshi.StatusExecuted:
		return Filled
	case kalshi.StatusResting:
		return Resting
	default:
		return Other
	}
}

// classify tallies per-leg states and derives the global outcome
// before any cancellation has happened.
func classify(opp arbitrage.Opportunity, legs []LegResult) Result {
	r := Result{Opportunity: opp, Legs: legs}

	for _, l := range legs {
		switch l.State {
		case Filled:
			r.FilledCount++
		case Resting:
			r.RestingCount++
		case Other:
			r.OtherCount++
		case ApiFailure:
			r.ApiFailureCount++
		}
	}

	switch {
	case r.FilledCount == len(legs):
		r.Outcome = FullyFilled
	case r.FilledCount == 0 && r.RestingCount == 0 && r.OtherCount == 0:
		r.Outcome = TotalFailure
	default:
		r.Outcome = Mixed
	}

	return r
}

// react performs the outcome-dependent side effects named in §4.4:
// canceling resting/other legs on a mixed outcome and computing the
// worst-case loss of the unhedged filled legs, then reconciling
// actual-vs-expected economics whenever every bracket filled.
func (e *Executor) react(ctx context.Context, r *Result) {
	switch r.Outcome {
	case FullyFilled:
		reconcile(r)
		e.logger.Info("opportunity-reconciled-complete",
			zap.String("opportunity_id", r.Opportunity.ID),
			zap.Int64("expected_net_cents", r.Opportunity.NetProfitCents),
			zap.Int64("actual_net_cents", r.ReconciledNetCents),
			zap.Int64("slippage_cents", r.SlippageCents))
		ExecutionOutcomesTotal.WithLabelValues(string(FullyFilled)).Inc()

	case TotalFailure:
		e.logger.Error("opportunity-total-failure",
			zap.String("opportunity_id", r.Opportunity.ID))
		ExecutionOutcomesTotal.WithLabelValues(string(TotalFailure)).Inc()

	default: // Mixed
		e.cancelStragglers(ctx, r)
		r.WorstCaseLossCents = worstCaseLoss(r.Legs)
		e.logger.Warn("opportunity-reconciled-incomplete",
			zap.String("opportunity_id", r.Opportunity.ID),
			zap.Int("filled", r.FilledCount),
			zap.Int("resting", r.RestingCount),
			zap.Int("other", r.OtherCount),
			zap.Int("api_failures", r.ApiFailureCount),
			zap.Int64("worst_case_loss_cents", r.WorstCaseLossCents))
		ExecutionOutcomesTotal.WithLabelValues(string(Mixed)).Inc()
	}

	LegsPlacedTotal.WithLabelValues(string(Filled)).Add(float64(r.FilledCount))
	LegsPlacedTotal.WithLabelValues(string(Resting)).Add(float64(r.RestingCount))
	LegsPlacedTotal.WithLabelValues(string(Other)).Add(float64(r.OtherCount))
	LegsPlacedTotal.WithLabelValues(string(ApiFailure)).Add(float64(r.ApiFailureCount))
}

func (e *Executor) cancelStragglers(ctx context.Context, r *Result) {
	for _, l := range r.Legs {
		if l.State != Resting && l.State != Other {
			continue
		}
		if l.Order.OrderID == "" {
			continue
		}
		if err := e.client.CancelOrder(ctx, l.Order.OrderID); err != nil {
			e.logger.Warn("cancel-straggler-failed",
				zap.String("order_id", l.Order.OrderID), zap.Error(err))
			r.CancelErrors = append(r.CancelErrors, err)
			continue
		}
		r.CanceledOrderIDs = append(r.CanceledOrderIDs, l.Order.OrderID)
	}
}

// worstCaseLoss is the cost exposure of every filled, unhedged leg:
// Σ yes_price · count over the filled legs.
func worstCaseLoss(legs []LegResult) int64 {
	var total int64
	for _, l := range legs {
		if l.State != Filled {
			continue
		}
		total += l.Order.EffectiveYesPrice() * l.Order.EffectiveCount()
	}
	return total
}

// reconcile recomputes actual net profit from the exchange-returned
// fill prices and sizes and compares it to the opportunity's expected
// net. It only applies when every bracket filled — a partial fill has
// no well-formed "actual" formula, since the Dutch-book math assumes
// one fill per bracket.
func reconcile(r *Result) {
	opp := r.Opportunity
	size := opp.PositionSize()
	if size == 0 {
		return
	}

	var sum, fees int64
	for _, l := range r.Legs {
		price := l.Order.EffectiveYesPrice()
		count := l.Order.EffectiveCount()
		sum += price
		fees += arbitrage.FeeCents(count, price)
	}

	var gross int64
	if opp.Direction == arbitrage.Short {
		gross = (sum - 100) * size
	} else {
		gross = (100 - sum) * size
	}

	net := gross - fees
	r.ReconciledNetCents = net
	r.SlippageCents = net - opp.NetProfitCents
	r.Reconciled = true
}
