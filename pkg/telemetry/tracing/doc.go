// Package tracing bootstraps the OpenTelemetry tracer provider that feeds the
// Agent365 exporter.
//
// NewProvider installs, in order:
//
//   - the baggage span processor, copying ambient baggage onto span
//     attributes when a span starts
//   - the Agent365 exporter behind a batching processor
//   - an optional OTLP/gRPC mirror for a local collector
//
// The provider is also installed as the global tracer provider, and the W3C
// Trace Context and Baggage propagators are set globally so inbound
// "traceparent" and "baggage" headers can be extracted with Extract or
// HTTPMiddleware.
//
// # Usage
//
//	exp, err := exporter.New(cfg, tokens)
//	if err != nil {
//		return err
//	}
//	tp, err := tracing.NewProvider(&cfg.Telemetry.Tracing, exp)
//	if err != nil {
//		return err
//	}
//	defer tp.Shutdown(context.Background())
//
//	ctx, span := tp.Tracer("my-agent").Start(ctx, "invoke_agent")
//	defer span.End()
package tracing
