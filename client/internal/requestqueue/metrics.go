package requestqueue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "csm_client",
		Subsystem: "request_queue",
		Name:      "submissions_total",
		Help:      "Operations accepted into the request queue.",
	})

	queueFullTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "csm_client",
		Subsystem: "request_queue",
		Name:      "queue_full_total",
		Help:      "Submissions rejected because the queue stayed full.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "csm_client",
		Subsystem: "request_queue",
		Name:      "run_duration_seconds",
		Help:      "Wall time of dequeued operations.",
		Buckets:   prometheus.DefBuckets,
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "csm_client",
		Subsystem: "request_queue",
		Name:      "depth",
		Help:      "Operations currently waiting for the worker.",
	})
)
