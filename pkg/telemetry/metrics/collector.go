package metrics

import (
	"time"

	"agent365/observability/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Export results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Group outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Collector owns every exporter metric and the registry they live on.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	exportMetrics   *ExportMetrics
	deliveryMetrics *DeliveryMetrics
}

// NewCollector creates a collector registered on registry. If registry is
// nil a fresh private registry is used.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "a365",
//		Subsystem: "exporter",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Work on a copy so defaults never leak back into the caller's config.
	c := *cfg
	if c.Namespace == "" {
		c.Namespace = config.DefaultMetricsNamespace
	}
	if c.Subsystem == "" {
		c.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(c.DurationBuckets) == 0 {
		c.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:          &c,
		registry:        registry,
		exportMetrics:   NewExportMetrics(&c, registry),
		deliveryMetrics: NewDeliveryMetrics(&c, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordExport records one finished export call.
//
// Parameters:
//   - result: ResultSuccess or ResultFailure
//   - spans: number of spans delivered to the service
//   - duration: wall time of the whole export
func (c *Collector) RecordExport(result string, spans int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.exportMetrics.RecordBatch(result, duration)
	c.exportMetrics.RecordSpans(dispositionExported, spans)
}

// RecordDroppedSpans counts spans skipped because they lacked an identity.
func (c *Collector) RecordDroppedSpans(n int) {
	if !c.enabled() {
		return
	}
	c.exportMetrics.RecordSpans(dispositionDropped, n)
}

// RecordGroup records the outcome of one identity group. errorKind is empty
// for delivered groups.
func (c *Collector) RecordGroup(outcome, errorKind string) {
	if !c.enabled() {
		return
	}
	c.deliveryMetrics.RecordGroup(outcome, errorKind)
}

// RecordAttempt records a single POST attempt. Pass the response status code,
// or a non-nil err when no response arrived.
func (c *Collector) RecordAttempt(statusCode int, err error) {
	if !c.enabled() {
		return
	}
	c.deliveryMetrics.RecordAttempt(StatusClass(statusCode, err))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
