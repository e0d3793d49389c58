package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"agent365/observability/pkg/endpoint"
)

// MaxDeliveryRetries caps delivery.max_retries so a single group cannot
// block the flush goroutine indefinitely.
const MaxDeliveryRetries = 10

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "delivery.timeout").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
//
// An unusable domain_override is not an error: it is ignored at runtime.
func Validate(cfg *Config) error {
	var errs []FieldError

	if _, err := endpoint.ParseCluster(cfg.ClusterCategory); err != nil {
		errs = append(errs, FieldError{
			Field:   "cluster_category",
			Message: fmt.Sprintf("unknown cluster %q", cfg.ClusterCategory),
		})
	}

	errs = append(errs, validateIdentity(&cfg.Identity)...)
	errs = append(errs, validateDelivery(&cfg.Delivery)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateIdentity(cfg *IdentityConfig) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(cfg.TenantKey) == "" {
		errs = append(errs, FieldError{Field: "identity.tenant_key", Message: "must not be empty"})
	}
	if strings.TrimSpace(cfg.AgentKey) == "" {
		errs = append(errs, FieldError{Field: "identity.agent_key", Message: "must not be empty"})
	}
	if cfg.TenantKey != "" && cfg.TenantKey == cfg.AgentKey {
		errs = append(errs, FieldError{Field: "identity.agent_key", Message: "must differ from identity.tenant_key"})
	}

	return errs
}

func validateDelivery(cfg *DeliveryConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "delivery.timeout", Message: "must be positive"})
	}
	if cfg.MaxRetries < 0 || cfg.MaxRetries > MaxDeliveryRetries {
		errs = append(errs, FieldError{
			Field:   "delivery.max_retries",
			Message: fmt.Sprintf("must be between 0 and %d", MaxDeliveryRetries),
		})
	}
	if cfg.BaseBackoff < 0 {
		errs = append(errs, FieldError{Field: "delivery.base_backoff", Message: "must not be negative"})
	}
	if cfg.RequestsPerSecond < 0 {
		errs = append(errs, FieldError{Field: "delivery.requests_per_second", Message: "must not be negative"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		})
	}

	for i, b := range cfg.Metrics.DurationBuckets {
		if b <= 0 || (i > 0 && b <= cfg.Metrics.DurationBuckets[i-1]) {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "must be positive and strictly increasing",
			})
			break
		}
	}

	if strings.TrimSpace(cfg.Tracing.ServiceName) == "" {
		errs = append(errs, FieldError{Field: "telemetry.tracing.service_name", Message: "must not be empty"})
	}
	switch cfg.Tracing.Sampler {
	case "always", "never":
	case "ratio", "identified":
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", cfg.Tracing.SampleRatio),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("unknown sampler %q (valid: always, never, ratio, identified)", cfg.Tracing.Sampler),
		})
	}
	if ep := cfg.Tracing.OTLPMirrorEndpoint; ep != "" {
		if _, _, err := net.SplitHostPort(ep); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.otlp_mirror_endpoint",
				Message: fmt.Sprintf("must be host:port: %v", err),
			})
		}
	}
	if cfg.Tracing.OTLPTimeout < 0 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.otlp_timeout", Message: "must not be negative"})
	}

	if _, _, err := net.SplitHostPort(cfg.Diagnostics.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "telemetry.diagnostics.listen_address",
			Message: fmt.Sprintf("must be host:port: %v", err),
		})
	}
	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"read_timeout", cfg.Diagnostics.ReadTimeout},
		{"write_timeout", cfg.Diagnostics.WriteTimeout},
		{"shutdown_timeout", cfg.Diagnostics.ShutdownTimeout},
		{"check_timeout", cfg.Diagnostics.CheckTimeout},
	}
	for _, t := range timeouts {
		if t.value < 0 {
			errs = append(errs, FieldError{Field: "telemetry.diagnostics." + t.field, Message: "must not be negative"})
		}
	}

	return errs
}
