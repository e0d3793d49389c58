package metrics

import (
	"agent365/observability/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// DeliveryMetrics tracks per-group delivery to the Agent365 service.
//
// Metrics:
//   - a365_exporter_groups_total: identity groups by outcome and error kind
//   - a365_exporter_attempts_total: POST attempts by status class
type DeliveryMetrics struct {
	groupsTotal   *prometheus.CounterVec
	attemptsTotal *prometheus.CounterVec
}

// NewDeliveryMetrics creates and registers delivery metrics with the provided registry.
func NewDeliveryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DeliveryMetrics {
	dm := &DeliveryMetrics{
		groupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "groups_total",
				Help:      "Total number of identity groups by delivery outcome",
			},
			[]string{"outcome", "error_kind"},
		),

		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "attempts_total",
				Help:      "Total number of POST attempts by response status class",
			},
			[]string{"status_class"},
		),
	}

	registry.MustRegister(
		dm.groupsTotal,
		dm.attemptsTotal,
	)

	return dm
}

// RecordGroup records one group outcome.
func (dm *DeliveryMetrics) RecordGroup(outcome, errorKind string) {
	dm.groupsTotal.WithLabelValues(outcome, errorKind).Inc()
}

// RecordAttempt records one POST attempt.
func (dm *DeliveryMetrics) RecordAttempt(statusClass string) {
	dm.attemptsTotal.WithLabelValues(statusClass).Inc()
}

// StatusClass buckets a response into "2xx".."5xx", "network" when err is
// set, or "other" for anything outside 100-599.
func StatusClass(statusCode int, err error) string {
	if err != nil {
		return "network"
	}
	switch {
	case statusCode >= 100 && statusCode < 200:
		return "1xx"
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	default:
		return "other"
	}
}
