package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "csm_client",
		Name:      "cache_hits_total",
		Help:      "Requests answered from the response cache.",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "csm_client",
		Name:      "cache_misses_total",
		Help:      "Cacheable requests that had to go to the network.",
	})

	dedupJoinedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "csm_client",
		Name:      "dedup_joined_total",
		Help:      "Callers that attached to an identical in-flight request.",
	})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "csm_client",
		Name:      "retries_total",
		Help:      "Retry waits performed, by reason.",
	}, []string{"reason"})
)
