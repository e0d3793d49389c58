// Package config provides configuration for the Agent 365 telemetry export
// pipeline.
//
// Configuration is an explicit value handed to constructors; there is no
// process-wide instance.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("a365.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("a365.yaml")
//
//  3. From defaults and the environment alone:
//     cfg, err := config.LoadFromEnv()
//
// # Environment Variable Overrides
//
// Environment variables use the A365 prefix followed by the section path:
//
//   - A365_CLUSTER_CATEGORY overrides cluster_category
//   - A365_OBSERVABILITY_DOMAIN_OVERRIDE overrides domain_override
//   - A365_DELIVERY_MAX_RETRIES overrides delivery.max_retries
//   - A365_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	cluster_category: prod
//	service_to_service: false
//	identity:
//	  tenant_key: tenant.id
//	  agent_key: gen_ai.agent.id
//	delivery:
//	  timeout: 30s
//	  max_retries: 3
//	  base_backoff: 200ms
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
package config
