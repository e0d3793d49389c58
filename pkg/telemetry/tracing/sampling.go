package tracing

import (
	"fmt"

	otelbaggage "go.opentelemetry.io/otel/baggage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"agent365/observability/pkg/baggage"
)

// Root sampling strategies accepted in telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"

	// SamplerIdentified keeps a root trace only when the starting context
	// carries both tenant and agent baggage. SampleRatio then applies to the
	// identified traces.
	SamplerIdentified = "identified"
)

// createSampler builds the root sampler for strategy. Child spans always
// follow their parent's decision:
//
//	telemetry:
//	  tracing:
//	    sampler: identified
//	    sample_ratio: 0.5  # half of the traces that can be delivered
//
// An empty strategy means "always".
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	if strategy == SamplerRatio || strategy == SamplerIdentified {
		if ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %g", ratio)
		}
	}

	var root sdktrace.Sampler
	switch strategy {
	case SamplerAlways, "":
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		root = sdktrace.TraceIDRatioBased(ratio)
	case SamplerIdentified:
		root = identitySampler{next: sdktrace.TraceIDRatioBased(ratio)}
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio, identified)", strategy)
	}

	return sdktrace.ParentBased(root), nil
}

// identitySampler drops root spans the exporter could never route.
type identitySampler struct {
	next sdktrace.Sampler
}

func (s identitySampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	bag := otelbaggage.FromContext(p.ParentContext)
	if bag.Member(baggage.TenantIDKey).Value() == "" || bag.Member(baggage.AgentIDKey).Value() == "" {
		return sdktrace.SamplingResult{Decision: sdktrace.Drop}
	}
	return s.next.ShouldSample(p)
}

func (s identitySampler) Description() string {
	return "Identified{" + s.next.Description() + "}"
}
