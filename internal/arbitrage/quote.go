package arbitrage

import "github.com/mselser95/bracket-arb/internal/kalshi"

// BracketQuote is the per-market derived quote used by both arbitrage
// directions.
type BracketQuote struct {
	Ticker      string
	Title       string
	YesAskCents int64 // cost to buy YES = 100 - best NO price
	YesBidCents int64 // revenue to sell YES = best YES price, or 0
	DepthAtNo   int64 // quantity at the best NO price (LONG depth gate)
	DepthAtYes  int64 // quantity at the best YES price (SHORT depth gate)
}

// QuoteFromOrderbook derives a BracketQuote from a market's order
// book. It treats each side as an unordered multiset of levels and is
// invariant under any permutation of either slice. The second return
// is false when the NO side is empty — per §4.3, such a market yields
// no quote and the whole event is skipped by the caller.
func QuoteFromOrderbook(ticker, title string, ob kalshi.Orderbook) (BracketQuote, bool) {
	if len(ob.No) == 0 {
		return BracketQuote{}, false
	}

	bestNo, depthAtNo := bestPriceAndDepth(ob.No)
	bestYes, depthAtYes := bestPriceAndDepth(ob.Yes)

	return BracketQuote{
		Ticker:      ticker,
		Title:       title,
		YesAskCents: 100 - bestNo,
		YesBidCents: bestYes,
		DepthAtNo:   depthAtNo,
		DepthAtYes:  depthAtYes,
	}, true
}

// bestPriceAndDepth returns the maximum price in levels and the summed
// quantity of every level at that price (duplicates included). An
// empty slice returns (0, 0).
func bestPriceAndDepth(levels []kalshi.PriceLevel) (price, depth int64) {
	if len(levels) == 0 {
		return 0, 0
	}

	best := levels[0].Price
	for _, l := range levels[1:] {
		if l.Price > best {
			best = l.Price
		}
	}

	var sum int64
	for _, l := range levels {
		if l.Price == best {
			sum += l.Quantity
		}
	}

	return best, sum
}
