package logging

import (
	"context"
	"log/slog"

	otelbaggage "go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"

	"agent365/observability/pkg/baggage"
)

// contextBaggageKeys are the baggage entries promoted to log fields.
var contextBaggageKeys = []struct {
	baggageKey string
	field      string
}{
	{baggage.TenantIDKey, "tenant_id"},
	{baggage.AgentIDKey, "agent_id"},
	{baggage.SessionIDKey, "session_id"},
	{baggage.CorrelationIDKey, "correlation_id"},
}

// extractContextFields extracts trace ids and identity baggage from ctx.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}

	bag := otelbaggage.FromContext(ctx)
	for _, k := range contextBaggageKeys {
		if v := bag.Member(k.baggageKey).Value(); v != "" {
			fields = append(fields, k.field, v)
		}
	}

	return fields
}

// WithContext returns logger enriched with fields from ctx, or logger
// itself when ctx carries none.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	logger = OrDefault(logger)
	fields := extractContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
