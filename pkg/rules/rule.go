package rules

import (
	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/liquid"
	"themelab-hq/triton/pkg/theme"
)

// Match is one occurrence of a rule violation within a file.
type Match struct {
	// Line is the 1-based line of the occurrence (0 for file-level).
	Line int
	// Message describes the specific occurrence.
	Message string
	// Suggestion optionally proposes a fix in prose.
	Suggestion string

	// Fix describes a mechanical replacement when the violation is
	// auto-fixable: the byte span [FixStart, FixEnd) is replaced by
	// FixText. HasFix distinguishes a real fix from the zero value.
	HasFix   bool
	FixStart int
	FixEnd   int
	FixText  string
}

// Rule is a single stateless pattern rule.
//
// Check must be pure: no I/O, no stored state, no blocking. The engine
// calls it from multiple goroutines with different documents.
type Rule struct {
	// ID identifies the rule in reports and profile configuration.
	ID string
	// Kinds restricts the rule to specific file kinds; empty means every
	// Liquid file kind.
	Kinds []theme.FileKind
	// Severity is the default severity; profiles may override it.
	Severity issue.Severity
	// Check scans a tokenized document and returns all occurrences.
	Check func(doc *liquid.Document) []Match
}

// AppliesTo reports whether the rule runs for the given file kind.
// Matchers for irrelevant kinds are skipped before any scanning happens.
func (r *Rule) AppliesTo(kind theme.FileKind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Selection chooses and re-grades rules for one run. Profiles implement
// it; EverySelection enables everything at default severity.
type Selection interface {
	// Enabled reports whether the rule participates in the run.
	Enabled(ruleID string) bool
	// Severity returns the effective severity, given the rule's default.
	Severity(ruleID string, fallback issue.Severity) issue.Severity
}

// EverySelection enables all rules at their default severities.
type EverySelection struct{}

// Enabled always returns true.
func (EverySelection) Enabled(string) bool { return true }

// Severity returns the fallback unchanged.
func (EverySelection) Severity(_ string, fallback issue.Severity) issue.Severity {
	return fallback
}
