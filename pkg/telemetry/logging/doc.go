/*
Package logging provides structured logging for csvlint.

The logger wraps log/slog with level and format parsing driven by the
telemetry configuration. Logs are written to stderr by default so that
validation results printed to stdout remain machine-parseable.

Usage:

	logger, err := logging.New(logging.Config{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		return err
	}
	logger.Info("validation complete", "file", path, "defects", n)
*/
package logging
