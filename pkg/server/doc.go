// Package server runs the diagnostics HTTP server of an exporting process:
// Prometheus metrics on /metrics and the health package's /health, /ready
// and /version endpoints.
package server
