package rules

import (
	"context"
	"fmt"
	"time"

	"themelab-hq/triton/pkg/autofix"
	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/liquid"
)

// Engine evaluates a rule registry against tokenized documents. It holds
// no per-file state and is safe for concurrent use.
type Engine struct {
	registry *Registry

	// Observer, when set, receives the wall time of every rule
	// invocation. Used to feed the rule duration metric.
	Observer func(ruleID string, elapsed time.Duration)
}

// NewEngine creates an engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Run evaluates every selected rule applicable to the document's kind
// and returns the issues plus the auto-fix edits for fixable matches.
//
// A rule that panics is converted into a single Warning issue and the
// remaining rules still run. The context is checked between rule
// invocations: matchers are pure and fast, so rule boundaries are the
// cancellation points.
func (e *Engine) Run(ctx context.Context, doc *liquid.Document, sel Selection) (*issue.List, []autofix.Edit, error) {
	if sel == nil {
		sel = EverySelection{}
	}

	issues := issue.NewList()
	var edits []autofix.Edit

	for _, rule := range e.registry.Rules() {
		if err := ctx.Err(); err != nil {
			return issues, edits, err
		}
		if !sel.Enabled(rule.ID) || !rule.AppliesTo(doc.Kind) {
			continue
		}

		start := time.Now()
		matches, err := evalRule(rule, doc)
		if e.Observer != nil {
			e.Observer(rule.ID, time.Since(start))
		}
		if err != nil {
			issues.Add(issue.Issue{
				Path:     doc.Path,
				Rule:     rule.ID,
				Severity: issue.SeverityWarning,
				Message:  fmt.Sprintf("rule skipped: %v", err),
			})
			continue
		}

		severity := sel.Severity(rule.ID, rule.Severity)
		for _, m := range matches {
			issues.Add(issue.Issue{
				Path:       doc.Path,
				Line:       m.Line,
				Rule:       rule.ID,
				Severity:   severity,
				Message:    m.Message,
				Suggestion: m.Suggestion,
				Fixable:    m.HasFix,
			})
			if m.HasFix {
				edits = append(edits, autofix.Edit{
					Start:       m.FixStart,
					End:         m.FixEnd,
					Replacement: m.FixText,
					Rule:        rule.ID,
				})
			}
		}
	}

	return issues, edits, nil
}

// evalRule runs one matcher with panic isolation. A buggy matcher must
// degrade to a skipped-rule warning, never abort the file.
func evalRule(rule *Rule, doc *liquid.Document) (matches []Match, err error) {
	defer func() {
		if p := recover(); p != nil {
			matches = nil
			err = fmt.Errorf("%v", p)
		}
	}()
	return rule.Check(doc), nil
}
