package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"agent365/observability/pkg/baggage"
	"agent365/observability/pkg/cli"
	"agent365/observability/pkg/config"
	"agent365/observability/pkg/exporter"
	"agent365/observability/pkg/telemetry/logging"
	"agent365/observability/pkg/telemetry/metrics"
	"agent365/observability/pkg/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tokenEnv supplies the bearer token when --token is not given.
const tokenEnv = "A365_TOKEN"

func resolveToken(flag string) string {
	if t := strings.TrimSpace(flag); t != "" {
		return t
	}
	return strings.TrimSpace(os.Getenv(tokenEnv))
}

// captureExporter sits between the tracer provider and the Agent365
// exporter. The SDK drops export errors, so they are kept here.
type captureExporter struct {
	next       sdktrace.SpanExporter
	keepSpans  bool
	mu         sync.Mutex
	spans      []sdktrace.ReadOnlySpan
	errs       []error
	lastErr    error
	exportRuns int
}

func (c *captureExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	var err error
	if c.next != nil {
		err = c.next.ExportSpans(ctx, spans)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keepSpans {
		c.spans = append(c.spans, spans...)
	}
	c.exportRuns++
	c.lastErr = err
	if err != nil && c.keepSpans {
		c.errs = append(c.errs, err)
	}
	return err
}

func (c *captureExporter) Shutdown(ctx context.Context) error {
	if c.next == nil {
		return nil
	}
	return c.next.Shutdown(ctx)
}

// Spans returns every span seen so far.
func (c *captureExporter) Spans() []sdktrace.ReadOnlySpan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sdktrace.ReadOnlySpan(nil), c.spans...)
}

// Errors returns every export error seen so far.
func (c *captureExporter) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errs...)
}

// LastExport is a readiness check: it fails while the most recent export
// failed.
func (c *captureExporter) LastExport(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// pipeline is a tracer provider wired to the Agent365 exporter the way an
// instrumented agent wires it.
type pipeline struct {
	provider  *tracing.Provider
	capture   *captureExporter
	exporter  *exporter.Exporter
	collector *metrics.Collector
	identity  config.IdentityConfig
	logger    *slog.Logger
}

// newPipeline builds the pipeline. With send false spans are only
// captured; nothing leaves the process.
func newPipeline(cfg *config.Config, logger *slog.Logger, token string, send, keepSpans bool) (*pipeline, error) {
	p := &pipeline{
		capture:   &captureExporter{keepSpans: keepSpans},
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		identity:  cfg.Identity,
		logger:    logger,
	}

	if send {
		exp, err := exporter.New(cfg, exporter.StaticToken(token),
			exporter.WithLogger(logger),
			exporter.WithMetrics(p.collector),
		)
		if err != nil {
			return nil, cli.NewCommandError("exporter", err)
		}
		p.exporter = exp
		p.capture.next = exp
	}

	tp, err := tracing.NewProvider(&cfg.Telemetry.Tracing, p.capture,
		tracing.WithSyncExport(),
		tracing.WithoutGlobal(),
	)
	if err != nil {
		return nil, cli.NewCommandError("tracing", err)
	}
	p.provider = tp
	return p, nil
}

// emit starts count spans inside a baggage scope carrying the identity.
func (p *pipeline) emit(ctx context.Context, tenant, agent, name string, count int) error {
	scope := baggage.NewBuilder().
		Set(p.identity.TenantKey, tenant).
		Set(p.identity.AgentKey, agent).
		CorrelationID(uuid.NewString()).
		Build()

	return scope.Run(ctx, func(ctx context.Context) error {
		logging.WithContext(ctx, p.logger).Debug("sending probe spans", "count", count)

		tracer := p.provider.Tracer("a365-probe", trace.WithInstrumentationVersion(Version))
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
			span.SetAttributes(attribute.Int("a365.probe.sequence", i))
			span.End()
		}
		return nil
	})
}

func (p *pipeline) shutdown() {
	if err := p.provider.Shutdown(context.Background()); err != nil {
		p.logger.Warn("tracer provider shutdown failed", "error", err)
	}
}
