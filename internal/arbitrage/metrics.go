package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesDetectedTotal tracks arbitrage opportunities emitted, by direction.
	OpportunitiesDetectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracketarb_opportunities_detected_total",
		Help: "Total number of arbitrage opportunities detected",
	}, []string{"direction"})

	// OpportunitiesRejectedTotal tracks gate failures by reason.
	OpportunitiesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracketarb_opportunities_rejected_total",
		Help: "Total number of candidate directions rejected by a gate",
	}, []string{"reason"})

	// NetProfitCents tracks the net profit of every emitted opportunity.
	NetProfitCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracketarb_net_profit_cents",
		Help:    "Net profit in cents of emitted arbitrage opportunities",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	// DetectionDurationSeconds tracks per-event evaluation latency.
	DetectionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracketarb_detection_duration_seconds",
		Help:    "Duration of evaluating one event's brackets for arbitrage",
		Buckets: prometheus.DefBuckets,
	})
)
