package config

import "time"

// Config is the root configuration structure for csvlint. Every field
// has a working default; a configuration file only needs to name what
// it changes.
type Config struct {
	// Check contains the default validation mode applied when the
	// corresponding command-line flags are not given.
	Check CheckConfig `yaml:"check"`

	// Watch contains configuration for watch mode: filesystem
	// debouncing, watched extensions, and the optional periodic sweep.
	Watch WatchConfig `yaml:"watch"`

	// History contains configuration for the validation run history
	// store.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CheckConfig holds the default validation mode.
type CheckConfig struct {
	// Delimiter is the field delimiter, written as a one-character
	// string or the two-character escape "\t" for tab.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// LazyQuotes tolerates improperly escaped quotes instead of
	// discarding the malformed portion.
	// Default: false
	LazyQuotes bool `yaml:"lazy_quotes"`

	// RFC4180 enables strict RFC 4180 compliance: comma delimiter and
	// CRLF line endings.
	// Default: false
	RFC4180 bool `yaml:"rfc4180"`

	// RequireFinalTerminator extends the strict-mode CRLF requirement
	// to the very last line of the file.
	// Default: false
	RequireFinalTerminator bool `yaml:"require_final_terminator"`

	// MaxDefects caps the defect list per run; zero means unbounded.
	// Default: 0
	MaxDefects int `yaml:"max_defects"`

	// Format is the report format: "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`
}

// WatchConfig holds watch-mode configuration.
type WatchConfig struct {
	// Debounce is the quiet period after a filesystem event before
	// re-validation triggers, preventing re-validation storms while a
	// file is still being written.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions is the list of file extensions considered when
	// watching a directory.
	// Default: [".csv", ".tsv"]
	Extensions []string `yaml:"extensions"`

	// Schedule is an optional cron expression for periodic full
	// sweeps independent of filesystem events. Empty disables the
	// sweep.
	// Default: ""
	Schedule string `yaml:"schedule"`

	// MetricsAddress is an optional listen address exposing the
	// Prometheus metrics endpoint while watching. Empty disables it.
	// Default: ""
	MetricsAddress string `yaml:"metrics_address"`
}

// HistoryConfig holds the run history store configuration.
type HistoryConfig struct {
	// Enabled turns on recording of validation runs.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file for recorded runs.
	// Default: "data/csvlint.db"
	Path string `yaml:"path"`

	// RetentionDays is how long recorded runs are kept before pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for automatic pruning in
	// watch mode. Empty disables scheduled pruning; `csvlint history
	// prune` remains available.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "csvlint"
	Namespace string `yaml:"namespace"`
}
