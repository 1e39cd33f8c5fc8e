// Package telemetry provides observability for csvlint.
//
// # Components
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for long-running modes
//
// Logging is available to every command; metrics are only recorded by
// watch mode, which can expose them over HTTP for scraping.
package telemetry
