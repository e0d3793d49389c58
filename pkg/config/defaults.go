package config

import "time"

// Default values for configuration fields.
const (
	DefaultClusterCategory = "prod"

	// Identity defaults
	DefaultTenantKey = "tenant.id"
	DefaultAgentKey  = "gen_ai.agent.id"

	// Delivery defaults
	DefaultDeliveryTimeout     = 30 * time.Second
	DefaultDeliveryMaxRetries  = 3
	DefaultDeliveryBaseBackoff = 200 * time.Millisecond

	// Logging defaults
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultRedactTokens = true

	// Metrics defaults
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "a365"
	DefaultMetricsSubsystem = "exporter"

	// Tracing defaults
	DefaultServiceName  = "a365-agent"
	DefaultSampler      = "always"
	DefaultSampleRatio  = 1.0
	DefaultOTLPInsecure = true
	DefaultOTLPTimeout  = 10 * time.Second

	// Diagnostics defaults
	DefaultDiagnosticsListenAddress   = "127.0.0.1:9464"
	DefaultDiagnosticsReadTimeout     = 5 * time.Second
	DefaultDiagnosticsWriteTimeout    = 10 * time.Second
	DefaultDiagnosticsShutdownTimeout = 10 * time.Second
	DefaultDiagnosticsCheckTimeout    = 5 * time.Second
)

// DefaultDurationBuckets are the export duration histogram buckets (seconds).
var DefaultDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Default returns a fully populated configuration. LoadConfig decodes YAML
// on top of this value, so fields absent from the file keep their defaults
// while explicit zero values (max_retries: 0) are respected.
func Default() *Config {
	return &Config{
		ClusterCategory: DefaultClusterCategory,
		Identity: IdentityConfig{
			TenantKey: DefaultTenantKey,
			AgentKey:  DefaultAgentKey,
		},
		Delivery: DeliveryConfig{
			Timeout:     DefaultDeliveryTimeout,
			MaxRetries:  DefaultDeliveryMaxRetries,
			BaseBackoff: DefaultDeliveryBaseBackoff,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:        DefaultLogLevel,
				Format:       DefaultLogFormat,
				RedactTokens: DefaultRedactTokens,
			},
			Metrics: MetricsConfig{
				Enabled:         DefaultMetricsEnabled,
				Namespace:       DefaultMetricsNamespace,
				Subsystem:       DefaultMetricsSubsystem,
				DurationBuckets: append([]float64(nil), DefaultDurationBuckets...),
			},
			Tracing: TracingConfig{
				ServiceName:  DefaultServiceName,
				Sampler:      DefaultSampler,
				SampleRatio:  DefaultSampleRatio,
				OTLPInsecure: DefaultOTLPInsecure,
				OTLPTimeout:  DefaultOTLPTimeout,
			},
			Diagnostics: DiagnosticsConfig{
				ListenAddress:   DefaultDiagnosticsListenAddress,
				ReadTimeout:     DefaultDiagnosticsReadTimeout,
				WriteTimeout:    DefaultDiagnosticsWriteTimeout,
				ShutdownTimeout: DefaultDiagnosticsShutdownTimeout,
				CheckTimeout:    DefaultDiagnosticsCheckTimeout,
			},
		},
	}
}

// ApplyDefaults fills fields whose zero value is never meaningful. It is
// safe to call on a hand-built Config.
func ApplyDefaults(cfg *Config) {
	if cfg.ClusterCategory == "" {
		cfg.ClusterCategory = DefaultClusterCategory
	}

	if cfg.Identity.TenantKey == "" {
		cfg.Identity.TenantKey = DefaultTenantKey
	}
	if cfg.Identity.AgentKey == "" {
		cfg.Identity.AgentKey = DefaultAgentKey
	}

	if cfg.Delivery.Timeout == 0 {
		cfg.Delivery.Timeout = DefaultDeliveryTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultSampler
		cfg.Telemetry.Tracing.SampleRatio = DefaultSampleRatio
	}
	if cfg.Telemetry.Tracing.OTLPTimeout == 0 {
		cfg.Telemetry.Tracing.OTLPTimeout = DefaultOTLPTimeout
	}

	d := &cfg.Telemetry.Diagnostics
	if d.ListenAddress == "" {
		d.ListenAddress = DefaultDiagnosticsListenAddress
	}
	if d.ReadTimeout == 0 {
		d.ReadTimeout = DefaultDiagnosticsReadTimeout
	}
	if d.WriteTimeout == 0 {
		d.WriteTimeout = DefaultDiagnosticsWriteTimeout
	}
	if d.ShutdownTimeout == 0 {
		d.ShutdownTimeout = DefaultDiagnosticsShutdownTimeout
	}
	if d.CheckTimeout == 0 {
		d.CheckTimeout = DefaultDiagnosticsCheckTimeout
	}
}
