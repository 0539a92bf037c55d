package runner

import (
	"fmt"
	"sort"
	"time"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/rules"
)

// minFileTimeout is the floor for the per-file deadline. A zero or
// negative configured timeout would otherwise cancel every file before
// its first rule.
const minFileTimeout = 50 * time.Millisecond

// Profile is a named validation configuration: which rules run, at what
// severities, how long one file may take, and what severity fails the
// run.
type Profile struct {
	// Name identifies the profile in reports and history.
	Name string

	// Rules lists the enabled rule IDs. Nil enables every rule.
	Rules []string

	// Severity overrides rule severities by ID.
	Severity map[string]issue.Severity

	// FileTimeout bounds validation of one file.
	FileTimeout time.Duration

	// FailLevel is the minimum severity that makes the run fail.
	FailLevel issue.Severity
}

// EffectiveTimeout returns the per-file deadline, clamped to the
// strictly positive minimum.
func (p *Profile) EffectiveTimeout() time.Duration {
	if p.FileTimeout < minFileTimeout {
		return minFileTimeout
	}
	return p.FileTimeout
}

// Development runs the correctness-critical subset for a fast edit
// loop.
func Development() Profile {
	return Profile{
		Name: "development",
		Rules: []string{
			rules.RuleHallucinatedFilter,
			rules.RuleUnknownFilter,
			rules.RuleDeprecatedFilter,
			rules.RuleUnknownTag,
			rules.RuleDeprecatedTag,
			rules.RuleSuspiciousObject,
			rules.RuleUnescapedOutput,
		},
		FileTimeout: 2 * time.Second,
		FailLevel:   issue.SeverityError,
	}
}

// Comprehensive runs every rule and fails on warnings. Meant for code
// review and pre-merge checks.
func Comprehensive() Profile {
	return Profile{
		Name:        "comprehensive",
		FileTimeout: 10 * time.Second,
		FailLevel:   issue.SeverityWarning,
	}
}

// Production runs every rule with the theme-store hygiene rules raised
// to their release-gate severities. The release gate fails on warnings:
// anything the full rule set flags blocks a submission.
func Production() Profile {
	return Profile{
		Name: "production",
		Severity: map[string]issue.Severity{
			rules.RuleConsoleStatement: issue.SeverityCritical,
			rules.RuleFilterChain:      issue.SeverityError,
		},
		FileTimeout: 5 * time.Second,
		FailLevel:   issue.SeverityWarning,
	}
}

// ProfileByName returns one of the canonical profiles.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "development":
		return Development(), nil
	case "comprehensive":
		return Comprehensive(), nil
	case "production":
		return Production(), nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
}

// ProfileNames returns the canonical profile names, sorted.
func ProfileNames() []string {
	names := []string{"development", "comprehensive", "production"}
	sort.Strings(names)
	return names
}

// selection merges a profile with run-level disables and severity
// overrides into a rules.Selection. Run-level settings win over the
// profile.
type selection struct {
	enabled   map[string]bool // nil means all
	disabled  map[string]bool
	overrides map[string]issue.Severity
}

// NewSelection builds the effective rule selection for a run.
func NewSelection(p Profile, disabled []string, overrides map[string]issue.Severity) rules.Selection {
	s := &selection{
		disabled:  map[string]bool{},
		overrides: map[string]issue.Severity{},
	}
	if p.Rules != nil {
		s.enabled = map[string]bool{}
		for _, id := range p.Rules {
			s.enabled[id] = true
		}
	}
	for id, sev := range p.Severity {
		s.overrides[id] = sev
	}
	for _, id := range disabled {
		s.disabled[id] = true
	}
	for id, sev := range overrides {
		s.overrides[id] = sev
	}
	return s
}

func (s *selection) Enabled(id string) bool {
	if s.disabled[id] {
		return false
	}
	if s.enabled == nil {
		return true
	}
	return s.enabled[id]
}

func (s *selection) Severity(id string, fallback issue.Severity) issue.Severity {
	if sev, ok := s.overrides[id]; ok {
		return sev
	}
	return fallback
}
