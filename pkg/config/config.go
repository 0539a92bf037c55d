package config

import "time"

// Config is the root configuration for a triton run.
type Config struct {
	// Check controls the validation run itself.
	Check CheckConfig `yaml:"check"`

	// Rules tunes individual rules and the data tables they close over.
	Rules RulesConfig `yaml:"rules"`

	// Cache configures the per-file result cache.
	Cache CacheConfig `yaml:"cache"`

	// History configures the run history store.
	History HistoryConfig `yaml:"history"`

	// Watch configures watch mode.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CheckConfig controls how a validation run executes.
type CheckConfig struct {
	// Profile is the validation profile to run: development,
	// comprehensive, or production.
	Profile string `yaml:"profile"`

	// FailLevel is the minimum severity that makes the run fail
	// (exit code 1).
	FailLevel string `yaml:"fail_level"`

	// FileTimeout bounds the time spent validating one file.
	FileTimeout time.Duration `yaml:"file_timeout"`

	// Workers caps the number of files validated concurrently. Zero
	// means one worker per CPU.
	Workers int `yaml:"workers"`

	// Exclude lists glob patterns for paths to skip.
	Exclude []string `yaml:"exclude"`
}

// RulesConfig tunes the rule registry.
type RulesConfig struct {
	// Disabled lists rule IDs to turn off regardless of profile.
	Disabled []string `yaml:"disabled"`

	// Severity overrides the default severity per rule ID
	// ("perf/filter-chain: error").
	Severity map[string]string `yaml:"severity"`

	// ExtraFilters extends the known filter registry with
	// theme-specific or app-provided filter names.
	ExtraFilters []string `yaml:"extra_filters"`

	// UserContentPrefixes and TrustedPrefixes adjust the escaping rule's
	// value-path classification. Empty keeps the built-in lists.
	UserContentPrefixes []string `yaml:"user_content_prefixes"`
	TrustedPrefixes     []string `yaml:"trusted_prefixes"`

	// ApprovedScriptHosts and ApprovedStyleHosts extend the allowlists
	// for external references.
	ApprovedScriptHosts []string `yaml:"approved_script_hosts"`
	ApprovedStyleHosts  []string `yaml:"approved_style_hosts"`
}

// CacheConfig configures the result cache that lets unchanged files skip
// re-validation.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `yaml:"enabled"`

	// Backend selects the cache store: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the sqlite database path when Backend is "sqlite".
	Path string `yaml:"path"`
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	// Enabled turns run recording on.
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite database path.
	Path string `yaml:"path"`

	// RetentionDays is how long finished runs are kept. Zero disables
	// pruning by age.
	RetentionDays int `yaml:"retention_days"`

	// RetentionSchedule is the cron expression for the pruning job.
	RetentionSchedule string `yaml:"retention_schedule"`

	// MaxRuns caps the number of stored runs. Zero means unlimited.
	MaxRuns int64 `yaml:"max_runs"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long to wait after the last filesystem event
	// before re-running validation.
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint served in watch mode.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the host:port the endpoint binds to.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path metrics are served on.
	Path string `yaml:"path"`
}
