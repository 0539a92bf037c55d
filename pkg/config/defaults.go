package config

import "time"

// Default values for configuration fields.
const (
	// Check defaults. Fail level and file timeout deliberately have no
	// defaults here: when unset, the selected profile decides.
	DefaultProfile = "development"

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheBackend = "memory"
	DefaultCachePath    = ".triton/cache.db"

	// History defaults
	DefaultHistoryEnabled           = false
	DefaultHistoryPath              = ".triton/history.db"
	DefaultHistoryRetentionDays     = 90
	DefaultHistoryRetentionSchedule = "0 3 * * *"

	// Watch defaults
	DefaultWatchDebounce = 300 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "text"
	DefaultMetricsEnabled       = false
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
)

// ApplyDefaults fills in default values for any zero-valued fields.
// It is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Check.Profile == "" {
		cfg.Check.Profile = DefaultProfile
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = DefaultHistoryRetentionDays
	}
	if cfg.History.RetentionSchedule == "" {
		cfg.History.RetentionSchedule = DefaultHistoryRetentionSchedule
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// DefaultConfig returns a fully defaulted configuration, the one used
// when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{
		Cache: CacheConfig{Enabled: DefaultCacheEnabled},
	}
	ApplyDefaults(cfg)
	return cfg
}
