package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"themelab-hq/triton/pkg/issue"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path to the field ("check.fail_level").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the field error as "field: message".
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every validation failure in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns all field errors in one message.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

var knownProfiles = map[string]bool{
	"development":   true,
	"comprehensive": true,
	"production":    true,
}

// Validate checks the whole configuration and returns a ValidationError
// listing every problem, or nil when the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateCheck(&cfg.Check)...)
	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateCheck(c *CheckConfig) []FieldError {
	var errs []FieldError

	if !knownProfiles[c.Profile] {
		errs = append(errs, FieldError{
			Field:   "check.profile",
			Message: fmt.Sprintf("unknown profile %q (development, comprehensive, production)", c.Profile),
		})
	}
	if c.FailLevel != "" {
		if _, err := issue.ParseSeverity(c.FailLevel); err != nil {
			errs = append(errs, FieldError{
				Field:   "check.fail_level",
				Message: err.Error(),
			})
		}
	}
	if c.FileTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "check.file_timeout",
			Message: "must not be negative",
		})
	}
	if c.Workers < 0 {
		errs = append(errs, FieldError{
			Field:   "check.workers",
			Message: "must not be negative",
		})
	}
	return errs
}

func validateRules(c *RulesConfig) []FieldError {
	var errs []FieldError
	for id, name := range c.Severity {
		if _, err := issue.ParseSeverity(name); err != nil {
			errs = append(errs, FieldError{
				Field:   "rules.severity." + id,
				Message: err.Error(),
			})
		}
	}
	return errs
}

func validateCache(c *CacheConfig) []FieldError {
	var errs []FieldError
	switch c.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "cache.backend",
			Message: fmt.Sprintf("unknown backend %q (memory, sqlite)", c.Backend),
		})
	}
	if c.Backend == "sqlite" && c.Path == "" {
		errs = append(errs, FieldError{
			Field:   "cache.path",
			Message: "required for the sqlite backend",
		})
	}
	return errs
}

func validateHistory(c *HistoryConfig) []FieldError {
	var errs []FieldError
	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.path",
			Message: "required when history is enabled",
		})
	}
	if c.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention_days",
			Message: "must not be negative",
		})
	}
	if c.MaxRuns < 0 {
		errs = append(errs, FieldError{
			Field:   "history.max_runs",
			Message: "must not be negative",
		})
	}
	if c.RetentionSchedule != "" {
		if _, err := cron.ParseStandard(c.RetentionSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.retention_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	return errs
}

func validateTelemetry(c *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (debug, info, warn, error)", c.Logging.Level),
		})
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (json, text)", c.Logging.Format),
		})
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: "required when metrics are enabled",
		})
	}
	return errs
}
