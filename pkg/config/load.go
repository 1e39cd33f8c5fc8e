package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path, applies default values, and validates the result. A missing
// file is not an error when allowMissing is true; the defaults are
// returned instead, so csvlint works out of the box without a
// configuration file.
func LoadConfig(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention CSVLINT_SECTION_FIELD (e.g. CSVLINT_CHECK_DELIMITER) and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string, allowMissing bool) (*Config, error) {
	cfg, err := LoadConfig(path, allowMissing)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Check overrides
	if val := os.Getenv("CSVLINT_CHECK_DELIMITER"); val != "" {
		cfg.Check.Delimiter = val
	}
	if val := os.Getenv("CSVLINT_CHECK_LAZY_QUOTES"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Check.LazyQuotes = b
		}
	}
	if val := os.Getenv("CSVLINT_CHECK_RFC4180"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Check.RFC4180 = b
		}
	}
	if val := os.Getenv("CSVLINT_CHECK_REQUIRE_FINAL_TERMINATOR"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Check.RequireFinalTerminator = b
		}
	}
	if val := os.Getenv("CSVLINT_CHECK_MAX_DEFECTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Check.MaxDefects = i
		}
	}
	if val := os.Getenv("CSVLINT_CHECK_FORMAT"); val != "" {
		cfg.Check.Format = val
	}

	// Watch overrides
	if val := os.Getenv("CSVLINT_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("CSVLINT_WATCH_SCHEDULE"); val != "" {
		cfg.Watch.Schedule = val
	}
	if val := os.Getenv("CSVLINT_WATCH_METRICS_ADDRESS"); val != "" {
		cfg.Watch.MetricsAddress = val
	}

	// History overrides
	if val := os.Getenv("CSVLINT_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("CSVLINT_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("CSVLINT_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.RetentionDays = i
		}
	}
	if val := os.Getenv("CSVLINT_HISTORY_PRUNE_SCHEDULE"); val != "" {
		cfg.History.PruneSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("CSVLINT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CSVLINT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CSVLINT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CSVLINT_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}
