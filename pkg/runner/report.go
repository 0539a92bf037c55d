package runner

import (
	"themelab-hq/triton/pkg/issue"
)

// Exit codes for the check command.
const (
	// ExitClean means no issue reached the fail level.
	ExitClean = 0
	// ExitIssues means at least one issue reached the fail level.
	ExitIssues = 1
	// ExitFailure means the run itself failed (unreadable theme, bad
	// configuration).
	ExitFailure = 2
)

// FileState is the terminal state of one file's validation.
type FileState string

const (
	// StateDone means the full pipeline ran.
	StateDone FileState = "done"
	// StateCached means the result came from the cache.
	StateCached FileState = "cached"
	// StateTimedOut means the per-file deadline expired mid-pipeline.
	StateTimedOut FileState = "timed_out"
	// StateFailed means the file could not be read. Parse and rule
	// failures never reach this state; they degrade to issues.
	StateFailed FileState = "failed"
)

// FileResult is the outcome of one file.
type FileResult struct {
	Path  string    `json:"path"`
	State FileState `json:"state"`
}

// Summary aggregates counts for one run.
type Summary struct {
	FilesScanned  int   `json:"files_scanned"`
	CriticalCount int   `json:"critical_count"`
	ErrorCount    int   `json:"error_count"`
	WarningCount  int   `json:"warning_count"`
	InfoCount     int   `json:"info_count"`
	ElapsedMS     int64 `json:"elapsed_ms"`
}

// Report is the result of a validation run. Issues are sorted by path,
// line, and rule so output is deterministic regardless of worker
// scheduling.
type Report struct {
	Profile string       `json:"profile"`
	Issues  *issue.List  `json:"issues"`
	Files   []FileResult `json:"files"`
	Summary Summary      `json:"summary"`
}

// ExitCode maps the report onto the check command's exit code contract.
func (r *Report) ExitCode(failLevel issue.Severity) int {
	if r.Issues.CountAtLeast(failLevel) > 0 {
		return ExitIssues
	}
	return ExitClean
}

// TimedOut returns the paths whose validation hit the deadline.
func (r *Report) TimedOut() []string {
	var out []string
	for _, f := range r.Files {
		if f.State == StateTimedOut {
			out = append(out, f.Path)
		}
	}
	return out
}

func (r *Report) finish(elapsedMS int64) {
	r.Issues.Sort()
	r.Summary = Summary{
		FilesScanned:  len(r.Files),
		CriticalCount: r.Issues.CountBySeverity(issue.SeverityCritical),
		ErrorCount:    r.Issues.CountBySeverity(issue.SeverityError),
		WarningCount:  r.Issues.CountBySeverity(issue.SeverityWarning),
		InfoCount:     r.Issues.CountBySeverity(issue.SeverityInfo),
		ElapsedMS:     elapsedMS,
	}
}
