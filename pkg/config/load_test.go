package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triton.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Check.Profile != DefaultProfile {
		t.Errorf("profile = %q, want %q", cfg.Check.Profile, DefaultProfile)
	}
	if cfg.Check.FileTimeout != 0 {
		t.Errorf("file timeout = %v, want 0 (profile decides)", cfg.Check.FileTimeout)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
}

func TestLoadConfigParsesFields(t *testing.T) {
	path := writeConfig(t, `
check:
  profile: production
  fail_level: warning
  file_timeout: 10s
  workers: 4
rules:
  disabled:
    - perf/filter-chain
  severity:
    store/console: critical
  extra_filters:
    - my_app_filter
cache:
  enabled: true
  backend: sqlite
  path: /tmp/cache.db
history:
  enabled: true
  path: /tmp/history.db
  retention_days: 30
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Check.Profile != "production" {
		t.Errorf("profile = %q", cfg.Check.Profile)
	}
	if cfg.Check.FileTimeout != 10*time.Second {
		t.Errorf("file timeout = %v", cfg.Check.FileTimeout)
	}
	if cfg.Check.Workers != 4 {
		t.Errorf("workers = %d", cfg.Check.Workers)
	}
	if len(cfg.Rules.Disabled) != 1 || cfg.Rules.Disabled[0] != "perf/filter-chain" {
		t.Errorf("disabled = %v", cfg.Rules.Disabled)
	}
	if cfg.Rules.Severity["store/console"] != "critical" {
		t.Errorf("severity override = %v", cfg.Rules.Severity)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.Path != "/tmp/cache.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.History.RetentionDays != 30 {
		t.Errorf("retention days = %d", cfg.History.RetentionDays)
	}
	// Defaults still fill unset sections.
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigRejectsUnknownProfile(t *testing.T) {
	path := writeConfig(t, "check:\n  profile: aggressive\n")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "check.profile") {
		t.Errorf("error = %v, want mention of check.profile", err)
	}
}

func TestLoadConfigRejectsBadSeverityOverride(t *testing.T) {
	path := writeConfig(t, "rules:\n  severity:\n    filter/unknown: fatal\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for bad severity name")
	}
}

func TestLoadConfigRejectsBadCron(t *testing.T) {
	path := writeConfig(t, "history:\n  enabled: true\n  retention_schedule: 'not a schedule'\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for bad cron expression")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "check:\n  profile: development\n")
	t.Setenv("TRITON_CHECK_PROFILE", "comprehensive")
	t.Setenv("TRITON_CHECK_WORKERS", "2")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}
	if cfg.Check.Profile != "comprehensive" {
		t.Errorf("profile = %q, want env override", cfg.Check.Profile)
	}
	if cfg.Check.Workers != 2 {
		t.Errorf("workers = %d, want 2", cfg.Check.Workers)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Errors: []FieldError{
		{Field: "check.profile", Message: "unknown"},
		{Field: "cache.backend", Message: "unknown"},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors") {
		t.Errorf("message = %q, want error count", msg)
	}
	if !strings.Contains(msg, "check.profile") || !strings.Contains(msg, "cache.backend") {
		t.Errorf("message = %q, want both fields", msg)
	}
}
