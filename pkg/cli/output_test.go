package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/runner"
)

func sampleReport() *runner.Report {
	r := &runner.Report{Profile: "development", Issues: issue.NewList()}
	r.Issues.Add(issue.Issue{
		Path: "sections/hero.liquid", Line: 3,
		Rule: "filter/unknown", Severity: issue.SeverityError,
		Message:    "unknown filter: frobnicate",
		Suggestion: "check the filter name against the platform documentation",
	})
	r.Issues.Add(issue.Issue{
		Path: "snippets/card.liquid",
		Rule: "schema/missing", Severity: issue.SeverityCritical,
		Message: "file-level issue without a line",
	})
	r.Summary = runner.Summary{FilesScanned: 2, CriticalCount: 1, ErrorCount: 1, ElapsedMS: 7}
	return r
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"sections/hero.liquid:3",
		"filter/unknown",
		"unknown filter: frobnicate",
		"suggestion: check the filter name",
		"snippets/card.liquid  critical",
		"2 files scanned in 7ms: 1 critical, 1 errors, 0 warnings, 0 info",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(FormatJSON)
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	if err := f.FormatTo(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["profile"] != "development" {
		t.Errorf("profile = %v", decoded["profile"])
	}
}

func TestNewFormatterRejectsUnknown(t *testing.T) {
	if _, err := NewFormatter("yaml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRenderFixReport(t *testing.T) {
	var buf bytes.Buffer
	err := RenderFixReport(&buf, &runner.FixReport{
		FilesFixed:    2,
		FixesApplied:  5,
		FixesDeferred: 1,
		Changed:       []string{"snippets/a.liquid", "snippets/b.liquid"},
	})
	if err != nil {
		t.Fatalf("RenderFixReport: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "5 fixes applied across 2 files") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "1 deferred") {
		t.Errorf("deferred note missing: %q", out)
	}
}
