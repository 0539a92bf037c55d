package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"themelab-hq/triton/pkg/cli"
	"themelab-hq/triton/pkg/config"
	"themelab-hq/triton/pkg/history"
	"themelab-hq/triton/pkg/runner"
	"themelab-hq/triton/pkg/runner/cache"
	"themelab-hq/triton/pkg/telemetry/logging"
	"themelab-hq/triton/pkg/telemetry/metrics"
	"themelab-hq/triton/pkg/walker"
)

var checkFlags struct {
	profile   string
	failLevel string
	format    string
	workers   int
	noCache   bool
}

var checkCmd = &cobra.Command{
	Use:   "check [theme-path]",
	Short: "Validate a theme",
	Long: `Validate every Liquid and JSON file of a theme and report issues.

Exit codes:
  0  no issue at or above the fail level
  1  at least one issue at or above the fail level
  2  the run itself failed (unreadable theme, bad configuration)

Examples:
  # Fast feedback while editing
  triton check

  # Everything, as a release gate
  triton check --profile production path/to/theme

  # JSON output for CI
  triton check --format json --fail-level warning`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.profile, "profile", "p", "", "validation profile: development, comprehensive, production")
	checkCmd.Flags().StringVar(&checkFlags.failLevel, "fail-level", "", "minimum severity that fails the run")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	checkCmd.Flags().IntVar(&checkFlags.workers, "workers", 0, "concurrent file validations (0 = one per CPU)")
	checkCmd.Flags().BoolVar(&checkFlags.noCache, "no-cache", false, "disable the result cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	formatter, err := cli.NewFormatter(cli.OutputFormat(checkFlags.format))
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	prof, err := resolveProfile(cfg, checkFlags.profile, checkFlags.failLevel)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	ctx := cli.SetupSignalHandler()
	report, err := executeRun(ctx, themeRoot(args), cfg, prof, log, nil)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return cli.NewCommandError("check", err)
	}
	exitCode = report.ExitCode(prof.FailLevel)
	return nil
}

// executeRun walks the theme, runs validation, and records history.
// Shared by check and watch.
func executeRun(ctx context.Context, root string, cfg *config.Config, prof runner.Profile, log *logging.Logger, collector *metrics.Collector) (*runner.Report, error) {
	files, err := walker.Walk(root, cfg.Check.Exclude)
	if err != nil {
		return nil, err
	}

	resultCache, err := openCache(cfg)
	if err != nil {
		return nil, err
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	workers := cfg.Check.Workers
	if checkFlags.workers > 0 {
		workers = checkFlags.workers
	}

	r := runner.New(runner.Options{
		Profile:   prof,
		Registry:  buildRegistry(cfg),
		Disabled:  cfg.Rules.Disabled,
		Overrides: severityOverrides(cfg),
		Workers:   workers,
		Cache:     resultCache,
		Version:   Version,
		Logger:    log,
		Metrics:   collector,
	})

	started := time.Now()
	report, err := r.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	if cfg.History.Enabled {
		if err := recordHistory(ctx, cfg, started, report, log); err != nil {
			log.Warn("recording run history failed", "error", err)
		}
	}
	return report, nil
}

func openCache(cfg *config.Config) (cache.Cache, error) {
	if checkFlags.noCache || !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "sqlite":
		c, err := cache.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("opening result cache: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemory(), nil
	}
}

func recordHistory(ctx context.Context, cfg *config.Config, started time.Time, report *runner.Report, log *logging.Logger) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(ctx, started, report)
	if err != nil {
		return err
	}
	log.Debug("run recorded", "run_id", id)
	return nil
}
