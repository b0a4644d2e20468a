// Package arbitrage computes fillable quotes from order books and
// evaluates LONG/SHORT Dutch-book arbitrage across a mutually-exclusive
// event's brackets with exact integer-cent accounting.
package arbitrage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is which side of the Dutch book an opportunity trades.
type Direction string

const (
	// Long buys YES on every bracket; exactly one pays 100 cents.
	Long Direction = "LONG"
	// Short sells YES on every bracket; exactly one pays 100 cents liability.
	Short Direction = "SHORT"
)

func (d Direction) String() string { return string(d) }

// Opportunity is an evaluated, gate-passing arbitrage across N
// brackets of one mutually-exclusive event. It is produced fresh every
// scan cycle and never persisted across cycles.
type Opportunity struct {
	ID               string
	EventTicker      string
	EventTitle       string
	Direction        Direction
	Brackets         []BracketQuote
	SumCents         int64
	TotalFeesCents   int64
	GrossProfitCents int64
	NetProfitCents   int64
	ROIPercent       decimal.Decimal
	positionSize     int64
}

// PositionSize is the per-leg contract count this opportunity was
// evaluated at.
func (o Opportunity) PositionSize() int64 { return o.positionSize }

// Gates holds the profitability, ROI, and depth floors a direction
// must clear to be emitted.
type Gates struct {
	MinNetProfitCents int64
	MinROIPercent     decimal.Decimal
	PositionSize      int64
}

// Evaluate independently evaluates LONG and SHORT across the given
// bracket quotes and returns every direction that clears all three
// gates. The two directions never exclude each other, and each reads
// only its own side's depth, so an empty opposite side blocks only its
// own direction.
func Evaluate(eventTicker, eventTitle string, brackets []BracketQuote, gates Gates) []Opportunity {
	start := time.Now()
	defer func() { DetectionDurationSeconds.Observe(time.Since(start).Seconds()) }()

	var out []Opportunity

	if opp, ok := evaluateLong(eventTicker, eventTitle, brackets, gates); ok {
		out = append(out, opp)
	}
	if opp, ok := evaluateShort(eventTicker, eventTitle, brackets, gates); ok {
		out = append(out, opp)
	}

	for _, o := range out {
		OpportunitiesDetectedTotal.WithLabelValues(o.Direction.String()).Inc()
		NetProfitCents.Observe(float64(o.NetProfitCents))
	}

	return out
}

func evaluateLong(eventTicker, eventTitle string, brackets []BracketQuote, gates Gates) (Opportunity, bool) {
	var sum, fees, minDepth int64
	minDepth = -1

	for _, b := range brackets {
		sum += b.YesAskCents
		fees += FeeCents(gates.PositionSize, b.YesAskCents)
		if minDepth < 0 || b.DepthAtNo < minDepth {
			minDepth = b.DepthAtNo
		}
	}
	if minDepth < 0 {
		minDepth = 0
	}

	grossPerContract := int64(100) - sum
	gross := grossPerContract * gates.PositionSize
	net := gross - fees
	cost := sum*gates.PositionSize + fees

	roi := decimal.Zero
	if cost > 0 {
		roi = decimal.NewFromInt(net).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(cost))
	}

	if !passesGates(net, roi, minDepth, gates) {
		return Opportunity{}, false
	}

	return Opportunity{
		ID:               uuid.New().String(),
		EventTicker:      eventTicker,
		EventTitle:       eventTitle,
		Direction:        Long,
		Brackets:         brackets,
		SumCents:         sum,
		TotalFeesCents:   fees,
		GrossProfitCents: gross,
		NetProfitCents:   net,
		ROIPercent:       roi,
		positionSize:     gates.PositionSize,
	}, true
}

func evaluateShort(eventTicker, eventTitle string, brackets []BracketQuote, gates Gates) (Opportunity, bool) {
	var sum, fees, minDepth int64
	minDepth = -1

	for _, b := range brackets {
		sum += b.YesBidCents
		fees += FeeCents(gates.PositionSize, b.YesBidCents)
		if minDepth < 0 || b.DepthAtYes < minDepth {
			minDepth = b.DepthAtYes
		}
	}
	if minDepth < 0 {
		minDepth = 0
	}

	grossPerContract := sum - 100
	gross := grossPerContract * gates.PositionSize
	net := gross - fees
	cost := int64(100) * gates.PositionSize

	roi := decimal.Zero
	if cost > 0 {
		roi = decimal.NewFromInt(net).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(cost))
	}

	if !passesGates(net, roi, minDepth, gates) {
		return Opportunity{}, false
	}

	return Opportunity{
		ID:               uuid.New().String(),
		EventTicker:      eventTicker,
		EventTitle:       eventTitle,
		Direction:        Short,
		Brackets:         brackets,
		SumCents:         sum,
		TotalFeesCents:   fees,
		GrossProfitCents: gross,
		NetProfitCents:   net,
		ROIPercent:       roi,
		positionSize:     gates.PositionSize,
	}, true
}

func passesGates(net int64, roi decimal.Decimal, minDepth int64, gates Gates) bool {
	if net < gates.MinNetProfitCents {
		OpportunitiesRejectedTotal.WithLabelValues("net_profit").Inc()
		return false
	}
	if roi.LessThan(gates.MinROIPercent) {
		OpportunitiesRejectedTotal.WithLabelValues("roi").Inc()
		return false
	}
	if minDepth < gates.PositionSize {
		OpportunitiesRejectedTotal.WithLabelValues("depth").Inc()
		return false
	}
	return true
}
