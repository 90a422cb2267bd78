// Package metrics exposes Prometheus metrics for searches, indexing and HTTP traffic.
package metrics

import (
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "medisearch"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	searchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of searches by profile and outcome",
		},
		[]string{"profile", "outcome"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, engine time included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"profile"},
	)

	filtersDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_dropped_total",
			Help:      "Filters that could not be translated and were skipped",
		},
		[]string{"field", "reason"},
	)

	indexOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_operations_total",
			Help:      "Index, delete and import operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	indexedDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexed_documents_total",
			Help:      "Documents committed to the index",
		},
	)
)

func init() {
	prometheus.MustRegister(searchRequestsTotal)
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(filtersDroppedTotal)
	prometheus.MustRegister(indexOperationsTotal)
	prometheus.MustRegister(indexedDocumentsTotal)
}

// ObserveSearch records one search.
func ObserveSearch(profile string, ok bool, d time.Duration) {
	searchRequestsTotal.WithLabelValues(profile, outcome(ok)).Inc()
	searchDuration.WithLabelValues(profile).Observe(d.Seconds())
}

// FilterDropped counts one filter skipped during translation. field must come from a
// bounded set; anything that is not valid UTF-8 is counted as "other".
func FilterDropped(field, reason string) {
	if !utf8.ValidString(field) {
		field = "other"
	}
	if !utf8.ValidString(reason) {
		reason = "other"
	}
	filtersDroppedTotal.WithLabelValues(field, reason).Inc()
}

// ObserveIndexOperation records one index operation and the documents it added.
func ObserveIndexOperation(operation string, ok bool, added int) {
	indexOperationsTotal.WithLabelValues(operation, outcome(ok)).Inc()
	if ok && added > 0 {
		indexedDocumentsTotal.Add(float64(added))
	}
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
