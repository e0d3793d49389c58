package config

import "time"

// Config is the root configuration for the telemetry export pipeline.
type Config struct {
	// ClusterCategory selects the deployment environment used for tenant
	// endpoint sharding.
	// Options: local, dev, test, preprod, firstrelease, prod, gov, high,
	// dod, mooncake, ex, rx
	// Default: "prod"
	ClusterCategory string `yaml:"cluster_category" split_words:"true"`

	// Island resolves island-cluster ("il-") hosts.
	// Default: false
	Island bool `yaml:"island" split_words:"true"`

	// ServiceToService posts to the service-to-service path variant.
	// Default: false
	ServiceToService bool `yaml:"service_to_service" split_words:"true"`

	// DomainOverride replaces endpoint resolution when it is a valid
	// "host[:port]" or "http(s)://host[:port]". Invalid values are ignored.
	DomainOverride string `yaml:"domain_override" envconfig:"OBSERVABILITY_DOMAIN_OVERRIDE"`

	// Identity names the span attributes that carry tenant and agent ids.
	Identity IdentityConfig `yaml:"identity" split_words:"true"`

	// Delivery controls HTTP delivery of payloads.
	Delivery DeliveryConfig `yaml:"delivery" split_words:"true"`

	// Telemetry controls the pipeline's own logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry" split_words:"true"`
}

// IdentityConfig names the identity attributes read from each span.
type IdentityConfig struct {
	// TenantKey is the span attribute holding the tenant id.
	// Default: "tenant.id"
	TenantKey string `yaml:"tenant_key" split_words:"true"`

	// AgentKey is the span attribute holding the agent id.
	// Default: "gen_ai.agent.id"
	AgentKey string `yaml:"agent_key" split_words:"true"`
}

// DeliveryConfig contains HTTP delivery settings.
type DeliveryConfig struct {
	// Timeout bounds each HTTP attempt.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout" split_words:"true"`

	// MaxRetries is the number of retries after the first attempt for
	// transient failures (408, 429, 5xx, network errors).
	// Default: 3
	MaxRetries int `yaml:"max_retries" split_words:"true"`

	// BaseBackoff is the linear backoff unit; retry n waits n*BaseBackoff.
	// Default: 200ms
	BaseBackoff time.Duration `yaml:"base_backoff" split_words:"true"`

	// RequestsPerSecond throttles POSTs across all groups. Zero disables
	// throttling.
	// Default: 0
	RequestsPerSecond float64 `yaml:"requests_per_second" split_words:"true"`
}

// TelemetryConfig contains configuration for the pipeline's own
// observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" split_words:"true"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics" split_words:"true"`

	// Tracing contains tracer provider bootstrap configuration.
	Tracing TracingConfig `yaml:"tracing" split_words:"true"`

	// Diagnostics configures the /metrics and health endpoint server.
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" split_words:"true"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" split_words:"true"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format" split_words:"true"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" split_words:"true"`

	// RedactTokens masks bearer tokens and JWTs in log arguments.
	// Default: true
	RedactTokens bool `yaml:"redact_tokens" split_words:"true"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether exporter metrics are recorded.
	// Default: true
	Enabled bool `yaml:"enabled" split_words:"true"`

	// Namespace is the metric name prefix.
	// Default: "a365"
	Namespace string `yaml:"namespace" split_words:"true"`

	// Subsystem is the metric subsystem name.
	// Default: "exporter"
	Subsystem string `yaml:"subsystem" split_words:"true"`

	// DurationBuckets defines histogram buckets for export duration (seconds).
	// Default: [0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30]
	DurationBuckets []float64 `yaml:"duration_buckets" split_words:"true"`
}

// TracingConfig contains tracer provider bootstrap configuration.
type TracingConfig struct {
	// ServiceName is the service.name resource attribute.
	// Default: "a365-agent"
	ServiceName string `yaml:"service_name" split_words:"true"`

	// ServiceVersion is the service.version resource attribute.
	ServiceVersion string `yaml:"service_version" split_words:"true"`

	// Sampler selects the root sampling strategy: always, never, ratio or
	// identified (only traces started under tenant and agent baggage).
	// Parent sampling decisions are always respected.
	// Default: "always"
	Sampler string `yaml:"sampler" split_words:"true"`

	// SampleRatio is the fraction of traces kept by the ratio and
	// identified samplers.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" split_words:"true"`

	// OTLPMirrorEndpoint, when set, also sends every span to an OTLP/gRPC
	// collector at this "host:port" (for local inspection).
	OTLPMirrorEndpoint string `yaml:"otlp_mirror_endpoint" split_words:"true"`

	// OTLPInsecure disables TLS for the mirror connection.
	// Default: true
	OTLPInsecure bool `yaml:"otlp_insecure" split_words:"true"`

	// OTLPTimeout bounds each mirror export.
	// Default: 10s
	OTLPTimeout time.Duration `yaml:"otlp_timeout" split_words:"true"`
}

// DiagnosticsConfig configures the diagnostics HTTP server.
type DiagnosticsConfig struct {
	// ListenAddress is the address the server binds to.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address" split_words:"true"`

	// ReadTimeout bounds reading a request.
	// Default: 5s
	ReadTimeout time.Duration `yaml:"read_timeout" split_words:"true"`

	// WriteTimeout bounds writing a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`

	// CheckTimeout bounds each readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout" split_words:"true"`
}
