package series

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HitsTotal counts lookups served from a non-stale cache entry.
	HitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracketarb_series_cache_hits_total",
		Help: "Total series catalog lookups served from a fresh cache entry",
	})

	// StaleTotal counts lookups served stale because a refresh failed.
	StaleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracketarb_series_cache_stale_total",
		Help: "Total series catalog lookups served stale after a failed refresh",
	})
)
