// Package metrics exposes Prometheus collectors for the voting and settlement flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tripsplit"

var (
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Votes recorded, by value.",
	}, []string{"value"})

	VoteRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vote_rejections_total",
		Help:      "Vote attempts refused before recording, by reason.",
	}, []string{"reason"})

	ItemTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_transitions_total",
		Help:      "Items that left PENDING, by new status and trigger.",
	}, []string{"status", "trigger"})

	RecalculationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recalculation_runs_total",
		Help:      "Electorate recalculations executed.",
	})

	SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_duration_seconds",
		Help:      "Time spent loading a trip ledger and computing its settlement.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
