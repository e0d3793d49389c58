package exporter

import (
	"log/slog"
	"net/http"

	"agent365/observability/pkg/telemetry/metrics"
)

// Option configures an Exporter or DeliveryClient.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	metrics    *metrics.Collector
	httpClient *http.Client
}

// WithLogger sets the logger. The same logger is handed to the retrying
// HTTP client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records export and delivery metrics on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = collector
	}
}

// WithHTTPClient sets the base HTTP client. Its Timeout is replaced by the
// configured delivery timeout; the caller's value is not modified.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
