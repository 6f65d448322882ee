// Package metrics defines and registers all custom Prometheus metrics for
// the Telegram cargo parser. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the HTTP router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cargo_parser"

// ── Pipeline metrics ──────────────────────────────────────────────────────────

// MessagesProcessedTotal counts inbound chat messages by final outcome.
// Labels:
//   - outcome: "admitted" (at least one load stored), "no_valid_records",
//     "extraction_failed", "duplicate", "rate_limited", "storage_failed"
var MessagesProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_processed_total",
		Help:      "Total number of inbound chat messages, by outcome.",
	},
	[]string{"outcome"},
)

// ExtractionFailuresTotal counts per-message extraction failures.
// Label:
//   - kind: "empty" (no reply) or "malformed" (unparseable reply / timeout)
var ExtractionFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_failures_total",
		Help:      "Total number of extraction calls that aborted a message.",
	},
	[]string{"kind"},
)

// RecordsAdmittedTotal counts candidates that passed validation.
var RecordsAdmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_admitted_total",
		Help:      "Total number of load candidates admitted for storage.",
	},
)

// RecordsRejectedTotal counts dropped candidates.
// Label:
//   - reason: structured rejection reason (e.g. "empty_location_name")
var RecordsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_rejected_total",
		Help:      "Total number of load candidates rejected by validation, by reason.",
	},
	[]string{"reason"},
)

// EnrichmentLookupsTotal counts per-point enrichment outcomes.
// Label:
//   - outcome: "resolved" or "unresolved"
var EnrichmentLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_lookups_total",
		Help:      "Total number of point enrichment attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PipelineDuration measures end-to-end processing time for one message.
var PipelineDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of message processing from extraction to admission.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 45},
	},
)

// ── Publisher metrics ─────────────────────────────────────────────────────────

// PublishResultsTotal counts per-load pushes to the cargo exchange.
// Label:
//   - result: "ok" or "error"
var PublishResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_results_total",
		Help:      "Total number of loads pushed to the cargo exchange, by result.",
	},
	[]string{"result"},
)
