package metrics

import (
	"errors"
	"testing"
	"time"

	"agent365/observability/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "metrics",
		DurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	require.NotNil(t, collector)
	assert.Same(t, registry, collector.Registry())
}

func TestCollector_NewCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	require.NotNil(t, collector.Registry())
	assert.Empty(t, cfg.Namespace, "caller config must not be mutated")

	collector.RecordExport(ResultSuccess, 1, time.Millisecond)
	families, err := collector.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "a365_exporter_batches_total")
	assert.Contains(t, names, "a365_exporter_export_duration_seconds")
}

func TestCollector_RecordExport(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordExport(ResultSuccess, 3, 200*time.Millisecond)
	collector.RecordExport(ResultFailure, 0, time.Second)
	collector.RecordDroppedSpans(2)
	collector.RecordDroppedSpans(0)

	em := collector.exportMetrics
	assert.Equal(t, 1.0, testutil.ToFloat64(em.batchesTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(em.batchesTotal.WithLabelValues(ResultFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(em.spansTotal.WithLabelValues(dispositionExported)))
	assert.Equal(t, 2.0, testutil.ToFloat64(em.spansTotal.WithLabelValues(dispositionDropped)))
	assert.Equal(t, 1, testutil.CollectAndCount(em.exportDuration))
}

func TestCollector_RecordDelivery(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordGroup(OutcomeDelivered, "")
	collector.RecordGroup(OutcomeFailed, "transient")
	collector.RecordGroup(OutcomeFailed, "transient")
	collector.RecordAttempt(500, nil)
	collector.RecordAttempt(200, nil)
	collector.RecordAttempt(0, errors.New("connection refused"))

	dm := collector.deliveryMetrics
	assert.Equal(t, 1.0, testutil.ToFloat64(dm.groupsTotal.WithLabelValues(OutcomeDelivered, "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(dm.groupsTotal.WithLabelValues(OutcomeFailed, "transient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(dm.attemptsTotal.WithLabelValues("5xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(dm.attemptsTotal.WithLabelValues("2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(dm.attemptsTotal.WithLabelValues("network")))
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordExport(ResultSuccess, 5, time.Second)
	collector.RecordGroup(OutcomeDelivered, "")
	collector.RecordAttempt(200, nil)

	assert.Equal(t, 0, testutil.CollectAndCount(collector.exportMetrics.batchesTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(collector.deliveryMetrics.attemptsTotal))
}

func TestCollector_Nil(t *testing.T) {
	var collector *Collector
	assert.NotPanics(t, func() {
		collector.RecordExport(ResultSuccess, 1, time.Second)
		collector.RecordDroppedSpans(1)
		collector.RecordGroup(OutcomeFailed, "token")
		collector.RecordAttempt(429, nil)
	})
	assert.Nil(t, collector.Registry())
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		err  error
		want string
	}{
		{code: 200, want: "2xx"},
		{code: 204, want: "2xx"},
		{code: 101, want: "1xx"},
		{code: 302, want: "3xx"},
		{code: 408, want: "4xx"},
		{code: 503, want: "5xx"},
		{code: 0, want: "other"},
		{code: 700, want: "other"},
		{code: 200, err: errors.New("eof"), want: "network"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusClass(tt.code, tt.err), "code %d", tt.code)
	}
}
