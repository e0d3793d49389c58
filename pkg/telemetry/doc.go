// Package telemetry groups the exporter's own observability.
//
// # Components
//
//   - logging: slog construction with token redaction and trace/baggage context fields
//   - metrics: Prometheus collectors for batches, spans, groups and POST attempts
//   - tracing: tracer provider bootstrap wiring the baggage processor and exporter
//   - health: liveness and readiness checks with HTTP handlers
//
// # Usage
//
//	logger, _ := logging.New(cfg.Telemetry.Logging, os.Stderr)
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	exp, _ := exporter.New(cfg, tokens,
//	    exporter.WithLogger(logger),
//	    exporter.WithMetrics(collector),
//	)
//	tp, _ := tracing.NewProvider(&cfg.Telemetry.Tracing, exp)
//	defer tp.Shutdown(context.Background())
//
// Bearer tokens and JWT-looking values are masked in log output unless
// telemetry.logging.redact_tokens is false.
package telemetry
