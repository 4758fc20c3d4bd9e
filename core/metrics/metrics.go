// Package metrics provides Prometheus metrics for catalog synchronisation runs.
//
// Metrics Categories:
//   - Runs: completed and aborted runs, run duration
//   - Items: remote items seen per kind
//   - Writes: publish writes by outcome, revision conflicts
//   - Enrichment: lookups by outcome (cache hit, full, partial, degraded)
//
// Usage:
//
//	metrics.RecordWrite("published")
//	metrics.RecordEnrichment(metrics.EnrichmentCacheHit)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enrichment outcomes.
const (
	EnrichmentCacheHit = "cache_hit"
	EnrichmentFull     = "full"
	EnrichmentPartial  = "partial"
	EnrichmentDegraded = "degraded"
)

var (
	// RunsTotal counts runs by result (completed, aborted).
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Total number of synchronisation runs",
		},
		[]string{"result"},
	)

	// RunDuration tracks wall time of a run.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_run_duration_seconds",
			Help:    "Duration of synchronisation runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// ItemsTotal counts remote items processed by kind.
	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_items_total",
			Help: "Total number of remote items reconciled",
		},
		[]string{"kind"},
	)

	// WritesTotal counts publish writes by outcome.
	WritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_writes_total",
			Help: "Total number of publish writes by outcome",
		},
		[]string{"outcome"},
	)

	// ConflictsTotal counts revision conflicts observed on writes.
	ConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sync_conflicts_total",
			Help: "Total number of revision conflicts on publish writes",
		},
	)

	// EnrichmentsTotal counts metadata enrichments by outcome.
	EnrichmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_enrichments_total",
			Help: "Total number of metadata enrichments by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordRun records a finished run.
func RecordRun(result string, duration time.Duration) {
	RunsTotal.WithLabelValues(result).Inc()
	RunDuration.Observe(duration.Seconds())
}

// RecordItem records one reconciled item.
func RecordItem(kind string) {
	ItemsTotal.WithLabelValues(kind).Inc()
}

// RecordWrite records a publish write outcome.
func RecordWrite(outcome string) {
	WritesTotal.WithLabelValues(outcome).Inc()
}

// RecordConflict records a revision conflict.
func RecordConflict() {
	ConflictsTotal.Inc()
}

// RecordEnrichment records an enrichment outcome.
func RecordEnrichment(outcome string) {
	EnrichmentsTotal.WithLabelValues(outcome).Inc()
}
