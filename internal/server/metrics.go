package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracegraph",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	graphCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tracegraph",
		Name:      "graph_store_hits_total",
		Help:      "Convert requests answered from the graph store.",
	})
)
