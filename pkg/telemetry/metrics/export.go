package metrics

import (
	"time"

	"agent365/observability/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	dispositionExported = "exported"
	dispositionDropped  = "dropped"
)

// ExportMetrics tracks export calls made by the span pipeline.
//
// Metrics:
//   - a365_exporter_batches_total: export calls by result
//   - a365_exporter_spans_total: spans by disposition (exported, dropped)
//   - a365_exporter_export_duration_seconds: wall time of each export call
type ExportMetrics struct {
	batchesTotal   *prometheus.CounterVec
	spansTotal     *prometheus.CounterVec
	exportDuration prometheus.Histogram
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		batchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batches_total",
				Help:      "Total number of span batches handed to the exporter",
			},
			[]string{"result"},
		),

		spansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "spans_total",
				Help:      "Total number of spans by disposition",
			},
			[]string{"disposition"},
		),

		exportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "export_duration_seconds",
				Help:      "Duration of export calls in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
	}

	registry.MustRegister(
		em.batchesTotal,
		em.spansTotal,
		em.exportDuration,
	)

	return em
}

// RecordBatch records one export call.
func (em *ExportMetrics) RecordBatch(result string, duration time.Duration) {
	em.batchesTotal.WithLabelValues(result).Inc()
	em.exportDuration.Observe(duration.Seconds())
}

// RecordSpans adds n spans under the given disposition.
func (em *ExportMetrics) RecordSpans(disposition string, n int) {
	if n <= 0 {
		return
	}
	em.spansTotal.WithLabelValues(disposition).Add(float64(n))
}
