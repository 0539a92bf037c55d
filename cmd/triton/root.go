package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"themelab-hq/triton/pkg/config"
	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/rules"
	"themelab-hq/triton/pkg/runner"
	"themelab-hq/triton/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// exitCode is set by commands that distinguish "issues found" from
	// success; Execute returns it.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "triton",
	Short: "Triton - static analysis for Liquid storefront themes",
	Long: `Triton validates Liquid storefront themes before they ship.

It checks tag pairing and nesting, unknown and hallucinated filters,
unescaped user content, performance anti-patterns, theme-store hygiene,
and the embedded settings schemas, and can rewrite mechanically fixable
issues in place.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return runner.ExitFailure
	}
	return exitCode
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "triton.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration honoring environment overrides.
func loadConfig() (*config.Config, error) {
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// buildLogger creates the CLI logger; --verbose forces debug level.
func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
	})
}

// buildRegistry constructs the rule registry from the configuration's
// rule tuning.
func buildRegistry(cfg *config.Config) *rules.Registry {
	return rules.NewRegistry(rules.Options{
		ExtraFilters:        cfg.Rules.ExtraFilters,
		UserContentPrefixes: nilIfEmpty(cfg.Rules.UserContentPrefixes),
		TrustedPrefixes:     nilIfEmpty(cfg.Rules.TrustedPrefixes),
		ApprovedScriptHosts: nilIfEmpty(cfg.Rules.ApprovedScriptHosts),
		ApprovedStyleHosts:  nilIfEmpty(cfg.Rules.ApprovedStyleHosts),
	})
}

// severityOverrides converts validated configuration severity names.
func severityOverrides(cfg *config.Config) map[string]issue.Severity {
	if len(cfg.Rules.Severity) == 0 {
		return nil
	}
	out := make(map[string]issue.Severity, len(cfg.Rules.Severity))
	for id, name := range cfg.Rules.Severity {
		sev, err := issue.ParseSeverity(name)
		if err != nil {
			continue // rejected by config validation already
		}
		out[id] = sev
	}
	return out
}

// resolveProfile picks the profile and layers flag and config
// adjustments on top: flag beats config beats profile default.
func resolveProfile(cfg *config.Config, nameFlag, failLevelFlag string) (runner.Profile, error) {
	name := cfg.Check.Profile
	if nameFlag != "" {
		name = nameFlag
	}
	prof, err := runner.ProfileByName(name)
	if err != nil {
		return runner.Profile{}, err
	}

	if cfg.Check.FileTimeout > 0 {
		prof.FileTimeout = cfg.Check.FileTimeout
	}

	failLevel := cfg.Check.FailLevel
	if failLevelFlag != "" {
		failLevel = failLevelFlag
	}
	if failLevel != "" {
		sev, err := issue.ParseSeverity(failLevel)
		if err != nil {
			return runner.Profile{}, fmt.Errorf("invalid fail level: %w", err)
		}
		prof.FailLevel = sev
	}
	return prof, nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// themeRoot resolves the positional theme path argument.
func themeRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
