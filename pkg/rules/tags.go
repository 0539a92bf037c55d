package rules

import (
	"fmt"
	"strings"

	"themelab-hq/triton/pkg/liquid"
)

// deprecatedTags maps tag names that render as literal text on the
// storefront to their working replacement. doc blocks come from code
// generators that emit documentation markers the platform never adopted.
var deprecatedTags = map[string]string{
	"doc":    "comment",
	"enddoc": "endcomment",
}

func checkUnknownTags(doc *liquid.Document) []Match {
	var matches []Match
	for _, tag := range doc.Tags {
		if liquid.IsKnownTag(tag.Name) {
			continue
		}
		if _, ok := deprecatedTags[tag.Name]; ok {
			continue // the deprecated-tag rule owns these
		}
		matches = append(matches, Match{
			Line:       tag.Line,
			Message:    fmt.Sprintf("unknown tag: %s", tag.Name),
			Suggestion: "check the tag name against the platform documentation",
		})
	}
	return matches
}

func checkDeprecatedTags(doc *liquid.Document) []Match {
	var matches []Match
	for _, tag := range doc.Tags {
		replacement, ok := deprecatedTags[tag.Name]
		if !ok {
			continue
		}
		start, end := tagNameSpan(doc.Source, tag)
		matches = append(matches, Match{
			Line:       tag.Line,
			Message:    fmt.Sprintf("invalid tag: %s", tag.Name),
			Suggestion: fmt.Sprintf("use %s instead", replacement),
			HasFix:     true,
			FixStart:   start,
			FixEnd:     end,
			FixText:    replacement,
		})
	}
	return matches
}

// tagNameSpan locates the byte span of the tag keyword inside its
// marker. The keyword is the first occurrence of the name after the
// opening "{%"; only whitespace and the "-" trim flag precede it.
func tagNameSpan(src string, tag liquid.TagToken) (int, int) {
	inner := src[tag.Offset:tag.End]
	rel := strings.Index(inner, tag.Name)
	if rel < 0 {
		return tag.Offset, tag.Offset
	}
	return tag.Offset + rel, tag.Offset + rel + len(tag.Name)
}
