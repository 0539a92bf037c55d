package liquid

import (
	"fmt"

	"themelab-hq/triton/pkg/issue"
)

// CheckStructure validates tag pairing and nesting depth over a scanned
// document and returns the resulting issues.
//
// Pairing is strict LIFO: every close tag must match the innermost open
// tag. Depth is the pairing stack size; exceeding MaxNestingDepth reports
// a single Error for the whole file rather than one per subsequent tag,
// so a deeply nested file does not flood the report.
func CheckStructure(doc *Document) *issue.List {
	issues := issue.NewList()

	type openTag struct {
		name string
		line int
		args string
	}

	var stack []openTag
	depthReported := false

	for _, tok := range doc.Tags {
		switch {
		case tok.Closing:
			want := tok.BaseName()
			if len(stack) == 0 {
				issues.Add(issue.Issue{
					Path:     doc.Path,
					Line:     tok.Line,
					Rule:     RuleUnmatchedEndTag,
					Severity: issue.SeverityError,
					Message:  fmt.Sprintf("unexpected {%% %s %%}: no matching {%% %s %%}", tok.Name, want),
				})
				continue
			}
			top := stack[len(stack)-1]
			if top.name != want {
				issues.Add(issue.Issue{
					Path:       doc.Path,
					Line:       tok.Line,
					Rule:       RuleMismatchedTags,
					Severity:   issue.SeverityError,
					Message:    fmt.Sprintf("expected {%% end%s %%} to close the %s tag on line %d, found {%% %s %%}", top.name, top.name, top.line, tok.Name),
					Suggestion: fmt.Sprintf("close the %s tag before %s", top.name, tok.Name),
				})
				// Pop anyway so one mismatch does not cascade into a
				// spurious unclosed-tag report for every enclosing tag.
				stack = stack[:len(stack)-1]
				continue
			}
			stack = stack[:len(stack)-1]

		case IsPaired(tok.Name):
			stack = append(stack, openTag{name: tok.Name, line: tok.Line, args: tok.Args})
			if len(stack) > MaxNestingDepth && !depthReported {
				depthReported = true
				issues.Add(issue.Issue{
					Path:       doc.Path,
					Line:       tok.Line,
					Rule:       RuleNestingDepth,
					Severity:   issue.SeverityError,
					Message:    fmt.Sprintf("tag nesting depth %d exceeds the platform limit of %d", len(stack), MaxNestingDepth),
					Suggestion: "extract inner markup into a snippet",
				})
			}
		}
		// Self-closing and unknown tags do not affect pairing. Unknown
		// tag names are the allow-list rules' concern, not a structural
		// problem.
	}

	for _, open := range stack {
		issues.Add(issue.Issue{
			Path:       doc.Path,
			Line:       open.line,
			Rule:       RuleUnclosedTag,
			Severity:   issue.SeverityCritical,
			Message:    fmt.Sprintf("unclosed tag: %s", open.name),
			Suggestion: fmt.Sprintf("add {%% end%s %%} before end of file", open.name),
		})
	}

	return issues
}
