package main

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"themelab-hq/triton/pkg/cli"
	"themelab-hq/triton/pkg/config"
	"themelab-hq/triton/pkg/history"
	"themelab-hq/triton/pkg/telemetry/logging"
	"themelab-hq/triton/pkg/telemetry/metrics"
	"themelab-hq/triton/pkg/watch"
)

var watchFlags struct {
	profile string
}

var watchCmd = &cobra.Command{
	Use:   "watch [theme-path]",
	Short: "Re-validate on every change",
	Long: `Watch the theme directory and re-run validation whenever files
change. Event bursts are debounced so a save storm triggers one run.

When metrics are enabled in the configuration, a Prometheus endpoint
serves run counters and rule timings for the lifetime of the watch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.profile, "profile", "p", "", "validation profile")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	prof, err := resolveProfile(cfg, watchFlags.profile, "")
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	root := themeRoot(args)
	ctx := cli.SetupSignalHandler()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
		go serveMetrics(ctx, cfg, collector, log)
	}

	if cfg.History.Enabled {
		if err := startRetention(ctx, cfg, log); err != nil {
			log.Warn("retention scheduler not started", "error", err)
		}
	}

	rerun := func() {
		report, err := executeRun(ctx, root, cfg, prof, log, collector)
		if err != nil {
			log.Error("validation run failed", "error", err)
			return
		}
		if err := cli.RenderReport(os.Stdout, report); err != nil {
			log.Error("rendering report failed", "error", err)
		}
	}

	// One full run up front, then follow changes.
	rerun()

	watcher, err := watch.New(watch.Config{
		Root:     root,
		Debounce: cfg.Watch.Debounce,
	}, log)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if err := watcher.Watch(ctx, rerun); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

func serveMetrics(ctx context.Context, cfg *config.Config, collector *metrics.Collector, log *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
	server := &http.Server{Addr: cfg.Telemetry.Metrics.ListenAddress, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	log.Info("metrics endpoint listening",
		"address", cfg.Telemetry.Metrics.ListenAddress,
		"path", cfg.Telemetry.Metrics.Path,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics endpoint failed", "error", err)
	}
}

func startRetention(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = store.Close()
	}()

	pruner := history.NewPruner(store, history.RetentionConfig{
		MaxAgeDays: cfg.History.RetentionDays,
		MaxRuns:    cfg.History.MaxRuns,
		Schedule:   cfg.History.RetentionSchedule,
	}, log)
	return history.NewScheduler(pruner).Start(ctx)
}
