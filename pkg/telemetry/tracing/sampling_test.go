package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"agent365/observability/pkg/baggage"
)

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
		contains string
	}{
		{name: "always", strategy: SamplerAlways, contains: "root:AlwaysOnSampler"},
		{name: "empty means always", strategy: "", contains: "root:AlwaysOnSampler"},
		{name: "never", strategy: SamplerNever, contains: "root:AlwaysOffSampler"},
		{name: "ratio", strategy: SamplerRatio, ratio: 0.25, contains: "root:TraceIDRatioBased{0.25}"},
		{name: "identified", strategy: SamplerIdentified, ratio: 1, contains: "root:Identified{AlwaysOnSampler}"},
		{name: "ratio too high", strategy: SamplerRatio, ratio: 1.5, wantErr: true},
		{name: "ratio negative", strategy: SamplerRatio, ratio: -0.1, wantErr: true},
		{name: "identified ratio too high", strategy: SamplerIdentified, ratio: 2, wantErr: true},
		{name: "unknown", strategy: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, sampler.Description(), "ParentBased")
			assert.Contains(t, sampler.Description(), tt.contains)
		})
	}
}

func TestIdentitySampler(t *testing.T) {
	sampler, err := createSampler(SamplerIdentified, 1)
	require.NoError(t, err)

	decide := func(ctx context.Context) sdktrace.SamplingDecision {
		return sampler.ShouldSample(sdktrace.SamplingParameters{
			ParentContext: ctx,
			TraceID:       trace.TraceID{0x01},
			Name:          "invoke_agent",
		}).Decision
	}

	assert.Equal(t, sdktrace.Drop, decide(context.Background()))

	tenantOnly, err := baggage.NewBuilder().TenantID("tenant-1").Build().Attach(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sdktrace.Drop, decide(tenantOnly))

	both, err := baggage.NewBuilder().TenantID("tenant-1").AgentID("agent-1").Build().Attach(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sdktrace.RecordAndSample, decide(both))
}

func TestNewProvider_IdentifiedSampler(t *testing.T) {
	cfg := testTracingConfig()
	cfg.Sampler = SamplerIdentified
	cfg.SampleRatio = 1
	tp, exp := newTestProvider(t, cfg, WithSyncExport())
	tracer := tp.Tracer("test")

	_, anon := tracer.Start(context.Background(), "anonymous")
	anon.End()

	ctx, err := baggage.NewBuilder().TenantID("tenant-1").AgentID("agent-1").Build().Attach(context.Background())
	require.NoError(t, err)
	ctx, root := tracer.Start(ctx, "invoke_agent")
	_, child := tracer.Start(ctx, "execute_tool")
	child.End()
	root.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "execute_tool", spans[0].Name)
	assert.Equal(t, "invoke_agent", spans[1].Name)
}
