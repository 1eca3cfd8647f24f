package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TileRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_requests_total",
		Help: "Total number of tile requests served through the cache",
	})

	LiveHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_live_hits_total",
		Help: "Total number of render requests served from the tile cache",
	})

	LiveMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_live_misses_total",
		Help: "Total number of render requests that went to the upstream",
	})

	PrefetchQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_prefetch_queued_total",
		Help: "Total number of predicted tile URLs queued for prefetch",
	})

	PrefetchSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_prefetch_skipped_total",
		Help: "Total number of predicted tile URLs dropped without a fetch",
	})

	PrefetchSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_prefetch_succeeded_total",
		Help: "Total number of prefetch fetches that completed",
	})

	PrefetchFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilecache_prefetch_failed_total",
		Help: "Total number of prefetch fetches that failed",
	})

	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tilecache_upstream_latency_seconds",
		Help:    "Latency of upstream tile fetches in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
