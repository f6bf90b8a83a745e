package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits.
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "akcli_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// cacheMisses tracks cache misses, including expired entries.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "akcli_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// cacheEvictions tracks entries removed by the lazy expiry sweep.
	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "akcli_cache_evictions_total",
			Help: "Total number of expired entries removed by sweeps",
		},
	)

	// cacheErrors tracks cache database errors by operation.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akcli_cache_errors_total",
			Help: "Total number of cache database errors",
		},
		[]string{"operation"}, // "load", "save"
	)
)
