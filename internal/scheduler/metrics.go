package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScanCycleDurationSeconds tracks the wall time of one scan cycle.
	ScanCycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bracketarb_scheduler_scan_cycle_duration_seconds",
		Help:    "Duration of one full scan cycle",
		Buckets: prometheus.DefBuckets,
	})

	// EventsSkippedTotal tracks events dropped by a structural or
	// order-book gate, labeled by reason.
	EventsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bracketarb_scheduler_events_skipped_total",
		Help: "Total events skipped by gate reason",
	}, []string{"reason"})
)
