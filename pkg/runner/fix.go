package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"themelab-hq/triton/pkg/autofix"
	"themelab-hq/triton/pkg/walker"
)

// FixReport summarizes an auto-fix pass.
type FixReport struct {
	// FilesFixed counts files rewritten on disk.
	FilesFixed int `json:"files_fixed"`

	// FixesApplied counts individual edits applied.
	FixesApplied int `json:"fixes_applied"`

	// FixesDeferred counts edits skipped because they overlapped an
	// applied edit. A second fix pass picks them up.
	FixesDeferred int `json:"fixes_deferred"`

	// Changed lists the rewritten paths, sorted by walk order.
	Changed []string `json:"changed,omitempty"`
}

// FixAll applies every auto-fixable edit and writes the results back
// under root. Files run sequentially: fixes mutate the working tree and
// deterministic order matters more than speed here.
func (r *Runner) FixAll(ctx context.Context, root string, files []walker.File) (*FixReport, error) {
	report := &FixReport{}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.Err != nil {
			continue
		}

		edits, err := r.CollectEdits(ctx, f)
		if err != nil {
			return nil, err
		}
		if len(edits) == 0 {
			continue
		}

		result, err := autofix.Apply(f.Source, edits)
		if err != nil {
			return nil, fmt.Errorf("fixing %s: %w", f.Path, err)
		}
		report.FixesDeferred += result.Deferred
		if result.Applied == 0 {
			continue
		}

		full := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.WriteFile(full, []byte(result.Text), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.Path, err)
		}

		report.FilesFixed++
		report.FixesApplied += result.Applied
		report.Changed = append(report.Changed, f.Path)
		r.log.Info("fixed file", "path", f.Path, "edits", result.Applied)
	}

	r.metrics.RecordFixes(report.FixesApplied)
	return report, nil
}
