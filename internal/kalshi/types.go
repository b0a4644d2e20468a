// Package kalshi implements the signed, throttled REST client for the
// exchange, plus the wire types its endpoints return.
package kalshi

import (
	"encoding/json"
	"fmt"
)

// Series is a catalog entry; lifecycle is fetch-once, cache, never mutate.
type Series struct {
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// SeriesResponse is the paginated response from GET /series.
type SeriesResponse struct {
	Series []Series `json:"series"`
	Cursor string   `json:"cursor,omitempty"`
}

// Market is one bracket of a mutually-exclusive event.
type Market struct {
	Ticker   string `json:"ticker"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Status   string `json:"status"`
	Result   string `json:"result,omitempty"`
}

// Event groups N mutually-exclusive markets; exactly one resolves YES.
type Event struct {
	EventTicker        string   `json:"event_ticker"`
	Title              string   `json:"title"`
	MutuallyExclusive  bool     `json:"mutually_exclusive"`
	Status             string   `json:"status,omitempty"`
	Markets            []Market `json:"markets,omitempty"`
}

// EventsResponse is the paginated response from GET /events.
type EventsResponse struct {
	Events []Event `json:"events"`
	Cursor string  `json:"cursor,omitempty"`
}

// PriceLevel is one rung of an order book side; wire form is a JSON
// 2-tuple [price_cents, quantity].
type PriceLevel struct {
	Price    int64
	Quantity int64
}

// UnmarshalJSON decodes the [price, quantity] tuple Kalshi sends.
func (p *PriceLevel) UnmarshalJSON(data []byte) error {
	var pair [2]int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode price level: %w", err)
	}
	p.Price = pair[0]
	p.Quantity = pair[1]
	return nil
}

// MarshalJSON re-encodes as the [price, quantity] tuple.
func (p PriceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{p.Price, p.Quantity})
}

// Orderbook holds both sides as unordered multisets of levels; either
// side may arrive as JSON null and must decode to an empty slice.
type Orderbook struct {
	Yes []PriceLevel `json:"yes"`
	No  []PriceLevel `json:"no"`
}

// OrderbookResponse wraps GET /markets/{ticker}/orderbook.
type OrderbookResponse struct {
	Orderbook Orderbook `json:"orderbook"`
}

// CreateOrderRequest is the POST /portfolio/orders body. The unused
// price side must be nil (encoded as JSON null), never zero.
type CreateOrderRequest struct {
	Ticker    string `json:"ticker"`
	Action    string `json:"action"` // "buy" or "sell"
	Side      string `json:"side"`   // "yes" or "no"
	OrderType string `json:"type"`   // "limit" — wire field is "type"
	Count     int64  `json:"count"`
	YesPrice  *int64 `json:"yes_price"`
	NoPrice   *int64 `json:"no_price"`
}

// Order is the exchange's canonical order representation, returned by
// both order placement and (eventually) order queries.
type Order struct {
	OrderID        string `json:"order_id"`
	Ticker         string `json:"ticker"`
	Status         string `json:"status"` // "executed", "resting", other
	Action         string `json:"action"`
	Side           string `json:"side"`
	OrderType      string `json:"type"`
	YesPrice       *int64 `json:"yes_price"`
	NoPrice        *int64 `json:"no_price"`
	Count          *int64 `json:"count"`
	RemainingCount *int64 `json:"remaining_count"`
	FillCount      *int64 `json:"fill_count"`
}

// EffectiveCount returns fill_count when present, else count, else 0.
func (o Order) EffectiveCount() int64 {
	if o.FillCount != nil {
		return *o.FillCount
	}
	if o.Count != nil {
		return *o.Count
	}
	return 0
}

// EffectiveYesPrice returns yes_price, or 0 if absent.
func (o Order) EffectiveYesPrice() int64 {
	if o.YesPrice != nil {
		return *o.YesPrice
	}
	return 0
}

// CreateOrderResponse wraps POST /portfolio/orders.
type CreateOrderResponse struct {
	Order Order `json:"order"`
}

const (
	// StatusExecuted is a fully-filled order.
	StatusExecuted = "executed"
	// StatusResting is a booked, unfilled order.
	StatusResting = "resting"

	// ActionBuy and ActionSell are the two order actions.
	ActionBuy  = "buy"
	ActionSell = "sell"

	// SideYes and SideNo are the two order sides.
	SideYes = "yes"
	SideNo  = "no"

	// OrderTypeLimit is the only order type this system places.
	OrderTypeLimit = "limit"
)

// Int64Ptr is a small helper for building CreateOrderRequest, whose
// unused price side must be a nil pointer, not a zero value.
func Int64Ptr(v int64) *int64 { return &v }
