// Package logging builds the structured logger used across the export
// pipeline.
//
// Loggers are plain *slog.Logger values so that every component, including
// the retrying HTTP client, shares one handler. When token redaction is on,
// bearer tokens and JWTs are masked before they reach the handler:
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
//	logger.Warn("delivery failed", "authorization", "Bearer eyJ...")
//	// {"level":"WARN","msg":"delivery failed","authorization":"***"}
//
// WithContext adds trace ids and identity baggage from a context:
//
//	logging.WithContext(ctx, logger).Info("probe sent")
package logging
