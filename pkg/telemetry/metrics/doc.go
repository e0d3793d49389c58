// Package metrics provides Prometheus metrics for the Agent365 exporter.
//
// # Metrics Categories
//
//   - Export Metrics: batches by result, spans exported or dropped, export duration
//   - Delivery Metrics: identity groups by outcome, POST attempts by status class
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordExport(metrics.ResultSuccess, 42, time.Since(start))
//	collector.RecordDroppedSpans(3)
//	collector.RecordGroup(metrics.OutcomeDelivered, "")
//	collector.RecordAttempt(200, nil)
//
// Metrics are registered on a private registry so that several exporters can
// live in one process. Hosts that scrape Prometheus gather from Registry().
//
// A nil *Collector, or one built from a disabled config, records nothing.
package metrics
