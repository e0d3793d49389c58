package baggage

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelbaggage "go.opentelemetry.io/otel/baggage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanProcessor copies the starting context's baggage onto new spans.
// Register it ahead of any exporting processor.
type SpanProcessor struct{}

var _ sdktrace.SpanProcessor = (*SpanProcessor)(nil)

// NewSpanProcessor returns a SpanProcessor.
func NewSpanProcessor() *SpanProcessor {
	return &SpanProcessor{}
}

// OnStart sets one attribute per baggage member unless the span already
// has an attribute with that key.
func (p *SpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	members := otelbaggage.FromContext(parent).Members()
	if len(members) == 0 {
		return
	}

	existing := s.Attributes()
	present := make(map[attribute.Key]struct{}, len(existing))
	for _, kv := range existing {
		present[kv.Key] = struct{}{}
	}

	attrs := make([]attribute.KeyValue, 0, len(members))
	for _, m := range members {
		key := attribute.Key(m.Key())
		if _, ok := present[key]; ok {
			continue
		}
		present[key] = struct{}{}
		attrs = append(attrs, key.String(m.Value()))
	}
	if len(attrs) > 0 {
		s.SetAttributes(attrs...)
	}
}

func (p *SpanProcessor) OnEnd(sdktrace.ReadOnlySpan) {}

func (p *SpanProcessor) Shutdown(context.Context) error { return nil }

func (p *SpanProcessor) ForceFlush(context.Context) error { return nil }
