// Package metrics holds the Prometheus collectors for the batch import
// pipeline. Collectors are registered via promauto at package load and
// exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadsAccepted counts CSV uploads that passed the structural check
	// and were handed off to the queue.
	UploadsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paysplit_uploads_accepted_total",
		Help: "CSV uploads accepted for asynchronous processing",
	})

	// BatchesProcessed counts worker outcomes per queue message.
	BatchesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paysplit_import_batches_total",
		Help: "Batch import messages processed, labeled by outcome",
	}, []string{"outcome"}) // committed, duplicate, permanent_failure, retryable_failure, malformed

	// BatchDuration observes end-to-end processing time per message.
	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paysplit_import_batch_duration_seconds",
		Help:    "Latency distribution of batch import processing",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	// ExpensesImported counts expenses created through the batch pipeline.
	ExpensesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paysplit_expenses_imported_total",
		Help: "Expenses created by the batch import worker",
	})
)

// Outcome labels for BatchesProcessed.
const (
	OutcomeCommitted        = "committed"
	OutcomeDuplicate        = "duplicate"
	OutcomePermanentFailure = "permanent_failure"
	OutcomeRetryableFailure = "retryable_failure"
	OutcomeMalformed        = "malformed"
)
