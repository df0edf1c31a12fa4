package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var fallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "csm_client",
		Name:      "demo_fallbacks_total",
		Help:      "AI-backed reads answered with canned demo content.",
	},
	[]string{"surface"},
)
