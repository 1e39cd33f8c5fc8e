package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific
// configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "check.delimiter").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
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

// Validate validates the entire configuration and returns a
// ValidationError if any rule fails.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateCheck(&cfg.Check)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateCheck(cfg *CheckConfig) []FieldError {
	var errs []FieldError

	if _, err := ParseDelimiter(cfg.Delimiter); err != nil {
		errs = append(errs, FieldError{Field: "check.delimiter", Message: err.Error()})
	}
	switch cfg.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "check.format",
			Message: fmt.Sprintf("unknown format %q, must be text or json", cfg.Format),
		})
	}
	if cfg.MaxDefects < 0 {
		errs = append(errs, FieldError{Field: "check.max_defects", Message: "must not be negative"})
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{Field: "watch.debounce", Message: "must not be negative"})
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, FieldError{
				Field:   "watch.extensions",
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.Path == "" {
		errs = append(errs, FieldError{Field: "history.path", Message: "required when history is enabled"})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{Field: "history.retention_days", Message: "must not be negative"})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.PruneSchedule, err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		})
	}

	return errs
}
