package issue

import (
	"fmt"
	"sort"
	"strings"
)

// Severity categorizes how serious an issue is.
type Severity int

const (
	// SeverityInfo is a style or optional suggestion.
	SeverityInfo Severity = iota
	// SeverityWarning is a risky pattern, a skipped rule, or a timeout.
	SeverityWarning
	// SeverityError is a concrete rule or schema violation that should
	// block a release.
	SeverityError
	// SeverityCritical means the file is structurally broken (unterminated
	// tag or schema block, malformed schema JSON, unreadable file).
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity parses a severity name. It accepts the lowercase names
// produced by String and is case-insensitive.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(name) {
	case "critical":
		return SeverityCritical, nil
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler so severities render as
// names in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Issue is a single finding against a theme file.
//
// Line is 1-based; 0 means the issue applies to the file as a whole.
type Issue struct {
	Path       string   `json:"path"`
	Line       int      `json:"line,omitempty"`
	Rule       string   `json:"rule"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Fixable    bool     `json:"fixable,omitempty"`
}

// String returns a single-line human-readable rendering of the issue.
func (i Issue) String() string {
	var sb strings.Builder
	sb.WriteString(i.Path)
	if i.Line > 0 {
		fmt.Fprintf(&sb, ":%d", i.Line)
	}
	fmt.Fprintf(&sb, ": [%s] %s (%s)", i.Severity, i.Message, i.Rule)
	if i.Suggestion != "" {
		fmt.Fprintf(&sb, "\n  suggestion: %s", i.Suggestion)
	}
	return sb.String()
}

// List accumulates issues during a validation pass.
// The zero value is ready to use.
type List struct {
	Issues []Issue
}

// NewList creates an empty issue list.
func NewList() *List {
	return &List{}
}

// Add appends an issue.
func (l *List) Add(iss Issue) {
	l.Issues = append(l.Issues, iss)
}

// AddAll appends every issue from another list.
func (l *List) AddAll(other *List) {
	if other == nil {
		return
	}
	l.Issues = append(l.Issues, other.Issues...)
}

// Len returns the number of issues.
func (l *List) Len() int {
	return len(l.Issues)
}

// CountAtLeast returns the number of issues with severity >= min.
func (l *List) CountAtLeast(min Severity) int {
	n := 0
	for _, iss := range l.Issues {
		if iss.Severity >= min {
			n++
		}
	}
	return n
}

// CountBySeverity returns the number of issues with exactly the given
// severity.
func (l *List) CountBySeverity(sev Severity) int {
	n := 0
	for _, iss := range l.Issues {
		if iss.Severity == sev {
			n++
		}
	}
	return n
}

// Sort orders issues by path, then line, then rule ID. Reports are sorted
// before rendering so output is deterministic regardless of worker
// scheduling.
func (l *List) Sort() {
	sort.SliceStable(l.Issues, func(a, b int) bool {
		ia, ib := l.Issues[a], l.Issues[b]
		if ia.Path != ib.Path {
			return ia.Path < ib.Path
		}
		if ia.Line != ib.Line {
			return ia.Line < ib.Line
		}
		return ia.Rule < ib.Rule
	})
}

// Fixable returns the subset of issues marked auto-fixable.
func (l *List) Fixable() []Issue {
	var out []Issue
	for _, iss := range l.Issues {
		if iss.Fixable {
			out = append(out, iss)
		}
	}
	return out
}
