package runner

import (
	"testing"
	"time"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/rules"
)

func TestEffectiveTimeoutClamp(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"zero", 0, minFileTimeout},
		{"negative", -time.Second, minFileTimeout},
		{"below floor", time.Millisecond, minFileTimeout},
		{"normal", 2 * time.Second, 2 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Profile{FileTimeout: tc.in}
			if got := p.EffectiveTimeout(); got != tc.want {
				t.Errorf("EffectiveTimeout() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProfileByName(t *testing.T) {
	for _, name := range ProfileNames() {
		p, err := ProfileByName(name)
		if err != nil {
			t.Fatalf("ProfileByName(%q): %v", name, err)
		}
		if p.Name != name {
			t.Errorf("profile name = %q, want %q", p.Name, name)
		}
		if p.EffectiveTimeout() <= 0 {
			t.Errorf("%s timeout not positive", name)
		}
	}
	if _, err := ProfileByName("aggressive"); err == nil {
		t.Error("unknown profile accepted")
	}
}

func TestDevelopmentIsSubset(t *testing.T) {
	dev := Development()
	if dev.Rules == nil {
		t.Fatal("development profile should enable a rule subset")
	}
	sel := NewSelection(dev, nil, nil)
	if sel.Enabled(rules.RuleFilterChain) {
		t.Error("development profile should not run readability rules")
	}
	if !sel.Enabled(rules.RuleHallucinatedFilter) {
		t.Error("development profile must run correctness rules")
	}
}

func TestSelectionLayering(t *testing.T) {
	comp := Comprehensive()
	sel := NewSelection(comp,
		[]string{rules.RuleNestedLoops},
		map[string]issue.Severity{rules.RuleConsoleStatement: issue.SeverityInfo},
	)

	if sel.Enabled(rules.RuleNestedLoops) {
		t.Error("run-level disable ignored")
	}
	if !sel.Enabled(rules.RuleUnknownFilter) {
		t.Error("comprehensive profile should enable everything else")
	}
	if got := sel.Severity(rules.RuleConsoleStatement, issue.SeverityError); got != issue.SeverityInfo {
		t.Errorf("override severity = %v, want Info", got)
	}
	if got := sel.Severity(rules.RuleUnknownFilter, issue.SeverityError); got != issue.SeverityError {
		t.Errorf("fallback severity = %v, want Error", got)
	}
}

func TestProductionOverridesWin(t *testing.T) {
	prod := Production()
	sel := NewSelection(prod, nil, nil)
	if got := sel.Severity(rules.RuleConsoleStatement, issue.SeverityError); got != issue.SeverityCritical {
		t.Errorf("console severity = %v, want Critical in production", got)
	}
}

func TestProductionFailLevelIsStrictest(t *testing.T) {
	prod := Production()
	if prod.FailLevel != issue.SeverityWarning {
		t.Errorf("production fail level = %v, want Warning", prod.FailLevel)
	}
	// A lower fail level gates more: warnings already fail the run.
	if dev := Development(); prod.FailLevel > dev.FailLevel {
		t.Error("production must gate at least as strictly as development")
	}
}
