package arbitrage

import (
	"testing"

	"github.com/mselser95/bracket-arb/internal/kalshi"
)

func TestQuoteFromOrderbook_EmptyNoSideYieldsNoQuote(t *testing.T) {
	ob := kalshi.Orderbook{
		Yes: []kalshi.PriceLevel{{Price: 40, Quantity: 10}},
		No:  nil,
	}

	_, ok := QuoteFromOrderbook("TICK", "Title", ob)
	if ok {
		t.Fatal("expected no quote when NO side is empty")
	}
}

func TestQuoteFromOrderbook_DerivesAskFromBestNo(t *testing.T) {
	ob := kalshi.Orderbook{
		No:  []kalshi.PriceLevel{{Price: 30, Quantity: 5}, {Price: 45, Quantity: 7}, {Price: 20, Quantity: 3}},
		Yes: []kalshi.PriceLevel{{Price: 50, Quantity: 4}, {Price: 60, Quantity: 2}},
	}

	q, ok := QuoteFromOrderbook("TICK", "Title", ob)
	if !ok {
		t.Fatal("expected a quote")
	}
	if q.YesAskCents != 100-45 {
		t.Errorf("YesAskCents = %d, want %d", q.YesAskCents, 100-45)
	}
	if q.DepthAtNo != 7 {
		t.Errorf("DepthAtNo = %d, want 7", q.DepthAtNo)
	}
	if q.YesBidCents != 60 {
		t.Errorf("YesBidCents = %d, want 60", q.YesBidCents)
	}
	if q.DepthAtYes != 2 {
		t.Errorf("DepthAtYes = %d, want 2", q.DepthAtYes)
	}
}

func TestQuoteFromOrderbook_EmptyYesSideYieldsZeroBid(t *testing.T) {
	ob := kalshi.Orderbook{
		No:  []kalshi.PriceLevel{{Price: 40, Quantity: 9}},
		Yes: nil,
	}

	q, ok := QuoteFromOrderbook("TICK", "Title", ob)
	if !ok {
		t.Fatal("expected a quote when only NO side is populated")
	}
	if q.YesBidCents != 0 || q.DepthAtYes != 0 {
		t.Errorf("expected zero bid/depth on empty YES side, got %d/%d", q.YesBidCents, q.DepthAtYes)
	}
}

func TestQuoteFromOrderbook_PermutationInvariant(t *testing.T) {
	orderings := [][]kalshi.PriceLevel{
		{{Price: 30, Quantity: 5}, {Price: 45, Quantity: 7}, {Price: 45, Quantity: 2}, {Price: 20, Quantity: 3}},
		{{Price: 45, Quantity: 2}, {Price: 20, Quantity: 3}, {Price: 45, Quantity: 7}, {Price: 30, Quantity: 5}},
		{{Price: 20, Quantity: 3}, {Price: 45, Quantity: 7}, {Price: 30, Quantity: 5}, {Price: 45, Quantity: 2}},
	}

	var want BracketQuote
	for i, levels := range orderings {
		ob := kalshi.Orderbook{No: levels, Yes: nil}
		q, ok := QuoteFromOrderbook("TICK", "Title", ob)
		if !ok {
			t.Fatal("expected a quote")
		}
		if i == 0 {
			want = q
			continue
		}
		if q != want {
			t.Errorf("ordering %d produced %+v, want %+v", i, q, want)
		}
	}
}

func TestQuoteFromOrderbook_DuplicatePriceDepthSummed(t *testing.T) {
	ob := kalshi.Orderbook{
		No: []kalshi.PriceLevel{{Price: 50, Quantity: 3}, {Price: 50, Quantity: 4}, {Price: 10, Quantity: 100}},
	}

	q, ok := QuoteFromOrderbook("TICK", "Title", ob)
	if !ok {
		t.Fatal("expected a quote")
	}
	if q.DepthAtNo != 7 {
		t.Errorf("DepthAtNo = %d, want 7 (3+4 at best price 50)", q.DepthAtNo)
	}
}
