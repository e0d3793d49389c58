// a365 is the operator tool for the Agent365 telemetry exporter.
//
// It resolves tenant ingestion endpoints, validates exporter configuration,
// sends probe spans through the real export pipeline, and runs a synthetic
// monitor that serves the exporter's metrics and health endpoints.
//
// Usage:
//
//	# Show the endpoint a tenant's spans are posted to
//	a365 endpoint --tenant e3064512-cc6d-4703-be71-a2ecaecaa98a --cluster prod
//
//	# Validate a configuration file (environment overrides applied)
//	a365 config validate --config a365.yaml
//
//	# Send one probe span for a tenant/agent pair
//	a365 probe --tenant <tenant-id> --agent <agent-id> --token "$TOKEN"
//
//	# Probe every 30s and serve /metrics, /health and /ready
//	a365 serve --tenant <tenant-id> --agent <agent-id> --interval 30s
//
//	# Show version information
//	a365 version
package main

func main() {
	Execute()
}
