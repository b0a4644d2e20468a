package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExecutionDurationSeconds tracks how long dispatching and
	// awaiting every leg of one opportunity takes.
	ExecutionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracketarb_execution_duration_seconds",
		Help:    "Duration of placing and classifying every leg of one opportunity",
		Buckets: prometheus.DefBuckets,
	})

	// ExecutionOutcomesTotal tracks the aggregate outcome of executed
	// opportunities by classification.
	ExecutionOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracketarb_execution_outcomes_total",
		Help: "Total executed opportunities by outcome (fully_filled, total_failure, mixed)",
	}, []string{"outcome"})

	// LegsPlacedTotal tracks individual leg classifications.
	LegsPlacedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracketarb_execution_legs_total",
		Help: "Total order legs placed, by classification",
	}, []string{"state"})
)
