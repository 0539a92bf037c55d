package rules

import (
	"context"
	"strings"
	"testing"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/liquid"
	"themelab-hq/triton/pkg/theme"
)

// onlySelection enables a fixed rule set, with optional severity
// overrides keyed by rule ID.
type onlySelection struct {
	enabled   map[string]bool
	overrides map[string]issue.Severity
}

func (s onlySelection) Enabled(id string) bool { return s.enabled[id] }

func (s onlySelection) Severity(id string, fallback issue.Severity) issue.Severity {
	if sev, ok := s.overrides[id]; ok {
		return sev
	}
	return fallback
}

func TestEngineRun(t *testing.T) {
	engine := NewEngine(NewRegistry(Options{}))
	doc := scanSnippet(t, "{{ customer.first_name }}\n{{ image | img_url }}\n")

	issues, edits, err := engine.Run(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var unescaped, deprecated int
	for _, is := range issues.Issues {
		switch is.Rule {
		case RuleUnescapedOutput:
			unescaped++
			if is.Severity != issue.SeverityError {
				t.Errorf("unescaped severity = %v, want Error", is.Severity)
			}
			if !is.Fixable {
				t.Error("unescaped output should be fixable")
			}
		case RuleDeprecatedFilter:
			deprecated++
		}
	}
	if unescaped != 1 || deprecated != 1 {
		t.Fatalf("got %d unescaped, %d deprecated, want 1 each", unescaped, deprecated)
	}
	if len(edits) != 2 {
		t.Fatalf("got %d edits, want 2", len(edits))
	}
}

func TestEngineSelection(t *testing.T) {
	engine := NewEngine(NewRegistry(Options{}))
	doc := scanSnippet(t, "{{ customer.first_name }}\n{{ image | img_url }}\n")

	sel := onlySelection{
		enabled:   map[string]bool{RuleDeprecatedFilter: true},
		overrides: map[string]issue.Severity{RuleDeprecatedFilter: issue.SeverityCritical},
	}
	issues, _, err := engine.Run(context.Background(), doc, sel)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if issues.Len() != 1 {
		t.Fatalf("got %d issues, want 1 (only the enabled rule)", issues.Len())
	}
	got := issues.Issues[0]
	if got.Rule != RuleDeprecatedFilter {
		t.Errorf("rule = %s, want %s", got.Rule, RuleDeprecatedFilter)
	}
	if got.Severity != issue.SeverityCritical {
		t.Errorf("severity = %v, want Critical override", got.Severity)
	}
}

func TestEngineKindFiltering(t *testing.T) {
	reg := NewRegistry(Options{})
	called := false
	reg.Register(&Rule{
		ID:       "test/sections-only",
		Kinds:    []theme.FileKind{theme.KindSection},
		Severity: issue.SeverityInfo,
		Check: func(*liquid.Document) []Match {
			called = true
			return nil
		},
	})

	engine := NewEngine(reg)
	doc := liquid.Scan("snippets/card.liquid", theme.KindSnippet, "hello")
	if _, _, err := engine.Run(context.Background(), doc, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if called {
		t.Error("section-only rule ran against a snippet")
	}
}

func TestEnginePanicRecovery(t *testing.T) {
	reg := NewRegistry(Options{})
	reg.Register(&Rule{
		ID:       "test/panics",
		Severity: issue.SeverityError,
		Check: func(*liquid.Document) []Match {
			panic("index out of range")
		},
	})
	reg.Register(&Rule{
		ID:       "test/after",
		Severity: issue.SeverityInfo,
		Check: func(*liquid.Document) []Match {
			return []Match{{Line: 1, Message: "still ran"}}
		},
	})

	engine := NewEngine(reg)
	doc := scanSnippet(t, "plain text")
	issues, _, err := engine.Run(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var skipped, after int
	for _, is := range issues.Issues {
		switch is.Rule {
		case "test/panics":
			skipped++
			if is.Severity != issue.SeverityWarning {
				t.Errorf("skipped rule severity = %v, want Warning", is.Severity)
			}
			if !strings.HasPrefix(is.Message, "rule skipped:") {
				t.Errorf("message = %q, want rule skipped prefix", is.Message)
			}
		case "test/after":
			after++
		}
	}
	if skipped != 1 {
		t.Errorf("got %d skipped-rule warnings, want exactly 1", skipped)
	}
	if after != 1 {
		t.Error("evaluation did not continue past the panicking rule")
	}
}

func TestEngineContextCancellation(t *testing.T) {
	engine := NewEngine(NewRegistry(Options{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := scanSnippet(t, "{{ customer.first_name }}")
	_, _, err := engine.Run(ctx, doc, nil)
	if err == nil {
		t.Fatal("Run with cancelled context returned nil error")
	}
}
