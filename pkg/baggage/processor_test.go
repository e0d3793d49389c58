package baggage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewSpanProcessor()),
		sdktrace.WithSpanProcessor(recorder),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func attrMap(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestSpanProcessor_CopiesBaggage(t *testing.T) {
	tp, recorder := newTestProvider(t)
	tracer := tp.Tracer("test")

	scope := NewBuilder().TenantID("t1").AgentID("a1").ChannelName("teams").Build()
	err := scope.Run(context.Background(), func(ctx context.Context) error {
		_, span := tracer.Start(ctx, "invoke_agent")
		span.End()
		return nil
	})
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "t1", attrs[TenantIDKey])
	assert.Equal(t, "a1", attrs[AgentIDKey])
	assert.Equal(t, "teams", attrs[ChannelNameKey])
}

func TestSpanProcessor_DoesNotOverwrite(t *testing.T) {
	tp, recorder := newTestProvider(t)
	tracer := tp.Tracer("test")

	scope := NewBuilder().TenantID("from-baggage").AgentID("a1").Build()
	err := scope.Run(context.Background(), func(ctx context.Context) error {
		_, span := tracer.Start(ctx, "execute_tool",
			trace.WithAttributes(attribute.String(TenantIDKey, "explicit")))
		span.End()
		return nil
	})
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "explicit", attrs[TenantIDKey])
	assert.Equal(t, "a1", attrs[AgentIDKey])
}

func TestSpanProcessor_AppliedAtStartNotExport(t *testing.T) {
	tp, recorder := newTestProvider(t)
	tracer := tp.Tracer("test")

	var span trace.Span
	scope := NewBuilder().SessionID("s1").Build()
	err := scope.Run(context.Background(), func(ctx context.Context) error {
		_, span = tracer.Start(ctx, "long_running")
		return nil
	})
	require.NoError(t, err)

	// Ended after the scope was detached.
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "s1", attrMap(ended[0].Attributes())[SessionIDKey])
}

func TestSpanProcessor_NoBaggage(t *testing.T) {
	tp, recorder := newTestProvider(t)
	_, span := tp.Tracer("test").Start(context.Background(), "plain",
		trace.WithAttributes(attribute.Int("n", 1)))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, map[string]string{"n": "1"}, attrMap(ended[0].Attributes()))
}
