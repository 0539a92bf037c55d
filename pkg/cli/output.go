package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"themelab-hq/triton/pkg/runner"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is human-readable text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output as plain text. Values that know how to
// render themselves (Report) get a dedicated layout.
type TextFormatter struct{}

// FormatTo writes data to the writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	if report, ok := data.(*runner.Report); ok {
		return RenderReport(w, report)
	}
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter formats output as indented JSON.
type JSONFormatter struct{}

// FormatTo writes data to the writer as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// NewFormatter creates a formatter for the given format name.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatText, "":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// RenderReport writes a validation report as human-readable text:
// one line per issue, grouped by file order, then the summary.
func RenderReport(w io.Writer, report *runner.Report) error {
	for _, iss := range report.Issues.Issues {
		loc := iss.Path
		if iss.Line > 0 {
			loc = fmt.Sprintf("%s:%d", iss.Path, iss.Line)
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %s  %s\n",
			loc, iss.Severity, iss.Rule, iss.Message); err != nil {
			return err
		}
		if iss.Suggestion != "" {
			if _, err := fmt.Fprintf(w, "    suggestion: %s\n", iss.Suggestion); err != nil {
				return err
			}
		}
	}

	s := report.Summary
	_, err := fmt.Fprintf(w,
		"\n%d files scanned in %dms: %d critical, %d errors, %d warnings, %d info\n",
		s.FilesScanned, s.ElapsedMS,
		s.CriticalCount, s.ErrorCount, s.WarningCount, s.InfoCount)
	return err
}

// RenderFixReport writes an auto-fix summary.
func RenderFixReport(w io.Writer, report *runner.FixReport) error {
	for _, path := range report.Changed {
		if _, err := fmt.Fprintf(w, "fixed %s\n", path); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d fixes applied across %d files",
		report.FixesApplied, report.FilesFixed)
	if err != nil {
		return err
	}
	if report.FixesDeferred > 0 {
		if _, err := fmt.Fprintf(w, " (%d deferred, run fix again)", report.FixesDeferred); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}
