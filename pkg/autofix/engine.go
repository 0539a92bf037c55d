package autofix

import (
	"fmt"
	"sort"
	"strings"
)

// Edit is a single textual substitution within one file.
type Edit struct {
	// Start and End delimit the byte span to replace; End is exclusive.
	Start int
	End   int
	// Replacement is the text the span becomes.
	Replacement string
	// Rule is the ID of the rule that produced the edit.
	Rule string
}

// Result reports the outcome of applying edits to one file.
type Result struct {
	// Text is the rewritten file content.
	Text string
	// Applied is the number of edits written.
	Applied int
	// Deferred is the number of edits skipped because they overlapped an
	// earlier edit; a revalidation and second pass picks them up.
	Deferred int
}

// Apply rewrites src with the given edits.
//
// Edits are applied in span order. When two edits overlap, only the one
// with the earliest start offset is applied in this pass. Invalid spans
// return an error; the caller's span bookkeeping is broken and silently
// dropping the edit would hide that.
func Apply(src string, edits []Edit) (Result, error) {
	if len(edits) == 0 {
		return Result{Text: src}, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Start != sorted[b].Start {
			return sorted[a].Start < sorted[b].Start
		}
		return sorted[a].End < sorted[b].End
	})

	var sb strings.Builder
	sb.Grow(len(src))

	res := Result{}
	pos := 0
	for _, e := range sorted {
		if e.Start < 0 || e.End > len(src) || e.Start > e.End {
			return Result{}, fmt.Errorf("rule %s produced invalid edit span [%d, %d) for %d-byte input", e.Rule, e.Start, e.End, len(src))
		}
		if e.Start < pos {
			res.Deferred++
			continue
		}
		sb.WriteString(src[pos:e.Start])
		sb.WriteString(e.Replacement)
		pos = e.End
		res.Applied++
	}
	sb.WriteString(src[pos:])

	res.Text = sb.String()
	return res, nil
}
