package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"agent365/observability/pkg/config"
	"agent365/observability/pkg/endpoint"
	"agent365/observability/pkg/telemetry/metrics"

	"github.com/google/uuid"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter sends finished spans to the Agent365 service, one POST per
// (tenant, agent) identity group.
type Exporter struct {
	partitioner *Partitioner
	delivery    *DeliveryClient
	logger      *slog.Logger
	metrics     *metrics.Collector

	mu       sync.Mutex
	shutdown bool
}

var _ sdktrace.SpanExporter = (*Exporter)(nil)

// New creates an Exporter from cfg. tokens supplies the bearer token for
// each delivery and must not be nil.
func New(cfg *config.Config, tokens TokenResolver, opts ...Option) (*Exporter, error) {
	if cfg == nil {
		return nil, errors.New("exporter config is nil")
	}
	if tokens == nil {
		return nil, errors.New("token resolver is nil")
	}

	cluster, err := endpoint.ParseCluster(cfg.ClusterCategory)
	if err != nil {
		return nil, fmt.Errorf("invalid cluster category: %w", err)
	}

	o := buildOptions(opts)

	resolver := endpoint.NewResolver(cluster,
		endpoint.WithIsland(cfg.Island),
		endpoint.WithServiceToService(cfg.ServiceToService),
		endpoint.WithOverride(cfg.DomainOverride),
	)
	if base, ok := resolver.Override(); ok {
		o.logger.Info("using domain override", "endpoint", base)
	} else if strings.TrimSpace(cfg.DomainOverride) != "" {
		o.logger.Warn("ignoring invalid domain override", "value", cfg.DomainOverride)
	}

	return &Exporter{
		partitioner: NewPartitioner(cfg.Identity.TenantKey, cfg.Identity.AgentKey),
		delivery:    NewDeliveryClient(resolver, tokens, cfg.Delivery, opts...),
		logger:      o.logger,
		metrics:     o.metrics,
	}, nil
}

// Export delivers spans and reports the aggregate result. It never panics.
func (e *Exporter) Export(ctx context.Context, spans []sdktrace.ReadOnlySpan) ExportResult {
	if err := e.export(ctx, spans); err != nil {
		return Failure
	}
	return Success
}

// ExportSpans implements sdktrace.SpanExporter. The returned error joins
// every failed group's *Error.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return e.export(ctx, spans)
}

// ForceFlush returns immediately; the exporter holds no buffered spans.
func (e *Exporter) ForceFlush(context.Context) error {
	return nil
}

// Shutdown closes the HTTP transport. Later calls are no-ops and later
// exports fail without network I/O.
func (e *Exporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return nil
	}
	e.shutdown = true
	e.delivery.Close()
	e.logger.Debug("agent365 exporter shut down")
	return nil
}

// Ready reports ErrShutdown once the exporter has been shut down. It has
// the shape of a health check.
func (e *Exporter) Ready(context.Context) error {
	if e.isShutdown() {
		return ErrShutdown
	}
	return nil
}

func (e *Exporter) isShutdown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown
}

func (e *Exporter) export(ctx context.Context, spans []sdktrace.ReadOnlySpan) (err error) {
	start := time.Now()
	delivered := 0

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("recovered panic in export",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = &Error{Kind: KindUnknown, Cause: fmt.Errorf("panic during export: %v", r)}
		}

		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultFailure
		}
		e.metrics.RecordExport(result, delivered, time.Since(start))
	}()

	if e.isShutdown() {
		e.logger.Warn("export called after shutdown", "spans", len(spans))
		return ErrShutdown
	}

	groups, dropped := e.partitioner.Partition(spans)
	e.metrics.RecordDroppedSpans(dropped)
	if dropped > 0 {
		e.logger.Debug("dropped spans without identity", "dropped", dropped, "spans", len(spans))
	}
	if len(groups) == 0 {
		return nil
	}

	exportID := uuid.NewString()
	var errs []error
	for _, g := range groups {
		if gerr := e.exportGroup(ctx, exportID, g); gerr != nil {
			errs = append(errs, gerr)
			continue
		}
		delivered += len(g.Spans)
	}

	return errors.Join(errs...)
}

// exportGroup builds and posts one group. A panic here fails only this group.
func (e *Exporter) exportGroup(ctx context.Context, exportID string, g Group) (err error) {
	scope := ""

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("recovered panic exporting group",
				"export_id", exportID,
				"tenant_id", g.TenantID,
				"agent_id", g.AgentID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = &Error{
				Kind:     KindUnknown,
				TenantID: g.TenantID,
				AgentID:  g.AgentID,
				Cause:    fmt.Errorf("panic during group export: %v", r),
			}
		}
		e.recordGroup(exportID, g, scope, err)
	}()

	payload := BuildPayload(g.Spans)
	scope = payload.ScopeLabel()

	body, err := payload.Marshal()
	if err != nil {
		return &Error{Kind: KindUnknown, TenantID: g.TenantID, AgentID: g.AgentID, Cause: err}
	}

	return e.delivery.PostGroup(ctx, g.Identity, body, scope)
}

func (e *Exporter) recordGroup(exportID string, g Group, scope string, err error) {
	if err == nil {
		e.metrics.RecordGroup(metrics.OutcomeDelivered, "")
		e.logger.Debug("delivered spans",
			"export_id", exportID,
			"tenant_id", g.TenantID,
			"agent_id", g.AgentID,
			"scope", scope,
			"spans", len(g.Spans),
		)
		return
	}

	attrs := []any{
		"export_id", exportID,
		"tenant_id", g.TenantID,
		"agent_id", g.AgentID,
		"scope", scope,
		"spans", len(g.Spans),
		"error_kind", KindOf(err).String(),
		"error", err,
	}
	var ee *Error
	if errors.As(err, &ee) {
		attrs = append(attrs, "status", ee.StatusCode, "attempts", ee.Attempts)
	}

	e.metrics.RecordGroup(metrics.OutcomeFailed, KindOf(err).String())
	e.logger.Warn("failed to deliver spans", attrs...)
}
