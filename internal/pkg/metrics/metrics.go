// Package metrics registers the Prometheus collectors for the sync service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCDuration observes outbound Horizon/Soroban call latency per operation.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rwasync",
		Name:      "rpc_duration_seconds",
		Help:      "Duration of outbound RPC calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	// CacheEvents counts fetcher cache hits, misses and purges.
	CacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rwasync",
		Name:      "cache_events_total",
		Help:      "Fetcher cache events by type.",
	}, []string{"operation", "event"})

	// FallbacksServed counts fallback substitutions on the read path.
	FallbacksServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rwasync",
		Name:      "fallbacks_served_total",
		Help:      "Fallback values substituted for failed fetches.",
	}, []string{"operation"})

	// MutationOutcomes counts mutation operations by outcome.
	MutationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rwasync",
		Name:      "mutation_outcomes_total",
		Help:      "Mutation operations by type and outcome.",
	}, []string{"operation", "outcome"})
)
