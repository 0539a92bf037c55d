package main

import (
	"os"

	"github.com/spf13/cobra"

	"themelab-hq/triton/pkg/cli"
	"themelab-hq/triton/pkg/runner"
	"themelab-hq/triton/pkg/walker"
)

var fixFlags struct {
	profile string
	dryRun  bool
}

var fixCmd = &cobra.Command{
	Use:   "fix [theme-path]",
	Short: "Apply safe auto-fixes",
	Long: `Rewrite mechanically fixable issues in place: deprecated filter
renames and missing escape filters on user content.

Fixes are conservative. Overlapping edits defer to a second pass, and
every fix leaves the file in a state the originating rule no longer
flags.

Examples:
  # Fix the theme in the current directory
  triton fix

  # Show what would change without writing
  triton fix --dry-run path/to/theme`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().StringVarP(&fixFlags.profile, "profile", "p", "comprehensive", "profile whose rules produce fixes")
	fixCmd.Flags().BoolVar(&fixFlags.dryRun, "dry-run", false, "report fixes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("fix", err)
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return cli.NewCommandError("fix", err)
	}
	prof, err := resolveProfile(cfg, fixFlags.profile, "")
	if err != nil {
		return cli.NewCommandError("fix", err)
	}

	root := themeRoot(args)
	files, err := walker.Walk(root, cfg.Check.Exclude)
	if err != nil {
		return cli.NewCommandError("fix", err)
	}

	r := runner.New(runner.Options{
		Profile:   prof,
		Registry:  buildRegistry(cfg),
		Disabled:  cfg.Rules.Disabled,
		Overrides: severityOverrides(cfg),
		Logger:    log,
	})

	ctx := cli.SetupSignalHandler()

	if fixFlags.dryRun {
		report := &runner.FixReport{}
		for _, f := range files {
			if f.Err != nil {
				continue
			}
			edits, err := r.CollectEdits(ctx, f)
			if err != nil {
				return cli.NewCommandError("fix", err)
			}
			if len(edits) > 0 {
				report.FilesFixed++
				report.FixesApplied += len(edits)
				report.Changed = append(report.Changed, f.Path)
			}
		}
		return cli.RenderFixReport(os.Stdout, report)
	}

	report, err := r.FixAll(ctx, root, files)
	if err != nil {
		return cli.NewCommandError("fix", err)
	}
	return cli.RenderFixReport(os.Stdout, report)
}
