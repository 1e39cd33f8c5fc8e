package config

import "time"

// Default values for configuration fields.
const (
	DefaultDelimiter = ","
	DefaultFormat    = "text"

	DefaultWatchDebounce = 250 * time.Millisecond

	DefaultHistoryPath          = "data/csvlint.db"
	DefaultHistoryRetentionDays = 90
	DefaultHistoryPruneSchedule = "0 3 * * *"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsNamespace = "csvlint"
)

// DefaultWatchExtensions returns the default watched file extensions.
func DefaultWatchExtensions() []string {
	return []string{".csv", ".tsv"}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Check.Delimiter == "" {
		cfg.Check.Delimiter = DefaultDelimiter
	}
	if cfg.Check.Format == "" {
		cfg.Check.Format = DefaultFormat
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = DefaultWatchExtensions()
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = DefaultHistoryRetentionDays
	}
	if cfg.History.PruneSchedule == "" {
		cfg.History.PruneSchedule = DefaultHistoryPruneSchedule
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
}
