// Package exporter delivers finished spans to the Agent365 observability
// service.
//
// An Exporter implements sdktrace.SpanExporter. For each batch it:
//
//  1. partitions spans by (tenant, agent) identity read from span attributes,
//     dropping spans that lack either value
//  2. renders each identity group as an OTLP-shaped JSON document, grouped
//     by instrumentation scope
//  3. resolves the tenant endpoint (or the configured override) and POSTs
//     the document with a bearer token from the host's TokenResolver,
//     retrying 408, 429, 5xx and network failures with linear backoff
//
// The batch succeeds only when every group is delivered. A failed group never
// stops the remaining groups, and no stage can panic out of Export.
//
// # Usage
//
//	exp, err := exporter.New(cfg, exporter.TokenResolverFunc(
//		func(ctx context.Context, agentID, tenantID string) (string, error) {
//			return tokens.For(ctx, agentID, tenantID)
//		}),
//		exporter.WithLogger(logger),
//		exporter.WithMetrics(collector),
//	)
//	if err != nil {
//		return err
//	}
//	defer exp.Shutdown(context.Background())
package exporter
