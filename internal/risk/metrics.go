package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpenArbs tracks fully filled arbitrages recorded this session
	// (never decremented).
	OpenArbs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bracketarb_risk_open_arbs",
		Help: "Fully filled arbitrages recorded this session (never decremented)",
	})

	// DailyPnLCents tracks today's realized/worst-case P&L.
	DailyPnLCents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bracketarb_risk_daily_pnl_cents",
		Help: "Today's cumulative P&L in cents",
	})

	// DailyOrders tracks today's order count against the quota.
	DailyOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bracketarb_risk_daily_orders",
		Help: "Orders placed today, counted toward the daily quota",
	})

	// BlocksTotal tracks opportunities blocked by each limit.
	BlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracketarb_risk_blocks_total",
		Help: "Total opportunities blocked by the risk limiter, by reason",
	}, []string{"reason"})
)
