package tracing

import (
	"context"
	"errors"
	"fmt"

	"agent365/observability/pkg/baggage"
	"agent365/observability/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const userAgent = "a365-observability"

// Provider owns the SDK tracer provider wired to the Agent365 exporter.
type Provider struct {
	config   *config.TracingConfig
	provider *sdktrace.TracerProvider
}

// ProviderOption configures NewProvider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	syncExport   bool
	batchOptions []sdktrace.BatchSpanProcessorOption
	processors   []sdktrace.SpanProcessor
	attributes   []attribute.KeyValue
	noGlobal     bool
}

// WithSyncExport exports each span as it ends instead of batching. Meant for
// short-lived tools and tests.
func WithSyncExport() ProviderOption {
	return func(o *providerOptions) {
		o.syncExport = true
	}
}

// WithBatchOptions tunes the batching processor in front of the exporter.
func WithBatchOptions(opts ...sdktrace.BatchSpanProcessorOption) ProviderOption {
	return func(o *providerOptions) {
		o.batchOptions = append(o.batchOptions, opts...)
	}
}

// WithSpanProcessor appends a processor after the built-in ones.
func WithSpanProcessor(sp sdktrace.SpanProcessor) ProviderOption {
	return func(o *providerOptions) {
		o.processors = append(o.processors, sp)
	}
}

// WithResourceAttributes adds attributes to the provider resource.
func WithResourceAttributes(attrs ...attribute.KeyValue) ProviderOption {
	return func(o *providerOptions) {
		o.attributes = append(o.attributes, attrs...)
	}
}

// WithoutGlobal leaves the global tracer provider and propagator untouched.
func WithoutGlobal() ProviderOption {
	return func(o *providerOptions) {
		o.noGlobal = true
	}
}

// NewProvider builds a tracer provider exporting to exporter.
//
// The provider must be shut down when no longer needed; shutdown flushes
// pending spans and shuts the exporter down:
//
//	defer tp.Shutdown(context.Background())
func NewProvider(cfg *config.TracingConfig, exporter sdktrace.SpanExporter, opts ...ProviderOption) (*Provider, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}
	if exporter == nil {
		return nil, errors.New("span exporter is nil")
	}

	o := &providerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	sampler, err := createSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	attrs = append(attrs, o.attributes...)

	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// The baggage processor must run first so exporters see the copied
	// attributes.
	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(baggage.NewSpanProcessor()),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if o.syncExport {
		tpOpts = append(tpOpts, sdktrace.WithSyncer(exporter))
	} else {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter, o.batchOptions...))
	}

	if cfg.OTLPMirrorEndpoint != "" {
		mirror, err := createOTLPExporter(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create mirror exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(mirror))
	}

	for _, sp := range o.processors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}

	p := &Provider{
		config:   cfg,
		provider: sdktrace.NewTracerProvider(tpOpts...),
	}

	if !o.noGlobal {
		otel.SetTracerProvider(p.provider)
		otel.SetTextMapPropagator(Propagator())
	}

	return p, nil
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return p.provider.Tracer(name, opts...)
}

// TracerProvider returns the underlying SDK provider.
func (p *Provider) TracerProvider() *sdktrace.TracerProvider {
	return p.provider
}

// ForceFlush exports all ended spans that have not been exported yet.
func (p *Provider) ForceFlush(ctx context.Context) error {
	return p.provider.ForceFlush(ctx)
}

// Shutdown flushes pending spans and shuts down every processor and
// exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}

// createOTLPExporter creates the OTLP gRPC mirror exporter. The connection
// is established lazily on first export.
func createOTLPExporter(cfg *config.TracingConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.OTLPMirrorEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(userAgent)),
	}

	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	if cfg.OTLPTimeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.OTLPTimeout))
	}

	client := otlptracegrpc.NewClient(opts...)
	exporter, err := otlptrace.New(context.Background(), client)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return exporter, nil
}
