package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedCompositions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civfeed_feed_compositions_total",
		Help: "The total number of unified feed compositions",
	})

	feedCompositionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "civfeed_feed_composition_duration_seconds",
		Help:    "Duration of unified feed compositions including source reads",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // Start at 1ms, double each bucket, 12 buckets
	})

	trendingComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civfeed_trending_computations_total",
		Help: "The total number of trending rankings computed against the store",
	})

	trendingCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civfeed_trending_cache_hits_total",
		Help: "The total number of trending requests served from the cache",
	})

	trendingCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civfeed_trending_cache_misses_total",
		Help: "The total number of trending requests that missed the cache",
	})
)
