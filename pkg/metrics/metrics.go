// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nftgate"

var (
	Registry = prometheus.NewRegistry()

	SourceRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "requests_total",
		Help:      "Asset source requests by outcome (ok, throttled, error).",
	}, []string{"source", "outcome"})

	SourceCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "cache_hits_total",
		Help:      "Asset lookups answered from the response cache.",
	}, []string{"source"})

	SourceLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "request_duration_seconds",
		Help:      "Latency of asset source requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	Verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verification",
		Name:      "attempts_total",
		Help:      "Interactive verification attempts by outcome.",
	}, []string{"outcome"})

	RoleOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "roles",
		Name:      "operations_total",
		Help:      "Role grants and revokes by outcome.",
	}, []string{"op", "outcome"})

	SchedulerCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "cycles_total",
		Help:      "Re-verification cycles by outcome (completed, busy, aborted, error).",
	}, []string{"outcome"})

	SchedulerUsers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "users_total",
		Help:      "Users re-verified by the scheduler by outcome.",
	}, []string{"outcome"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		SourceRequests,
		SourceCacheHits,
		SourceLatency,
		Verifications,
		RoleOperations,
		SchedulerCycles,
		SchedulerUsers,
	)
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
