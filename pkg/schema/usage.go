package schema

import (
	"fmt"
	"sort"
	"strings"

	"themelab-hq/triton/pkg/issue"
)

// Rule IDs for schema usage issues.
const (
	RuleUndefinedSetting = "schema/undefined-setting"
	RuleUnusedSetting    = "schema/unused-setting"
)

// CheckUsage cross-checks the settings a schema defines against the
// setting references the Liquid body actually makes.
//
// Only section.settings.* and block.settings.* references count; global
// settings.* references target the theme-level settings file, not this
// schema. References to undefined settings are Errors, defined-but-never
// -referenced settings are Warnings (dead configuration).
//
// The scan is a single pass over the source looking for the literal
// ".settings." marker, never a whole-file pattern match.
func CheckUsage(path, source string, line int, doc *Document) *issue.List {
	issues := issue.NewList()

	defined := map[string]bool{}
	for _, s := range doc.Settings {
		if s.ID != "" && !noIDTypes[s.Type] {
			defined[s.ID] = true
		}
	}
	for _, group := range doc.Blocks {
		for _, s := range group.Settings {
			if s.ID != "" && !noIDTypes[s.Type] {
				defined[s.ID] = true
			}
		}
	}

	used := map[string]int{} // id -> first reference offset
	const marker = ".settings."
	pos := 0
	for {
		rel := strings.Index(source[pos:], marker)
		if rel < 0 {
			break
		}
		at := pos + rel
		pos = at + len(marker)

		owner := identBefore(source, at)
		if owner != "section" && owner != "block" {
			continue
		}
		id := identAfter(source, at+len(marker))
		if id == "" {
			continue
		}
		if _, ok := used[id]; !ok {
			used[id] = at
		}
	}

	// Emit in sorted ID order: the report sort keys on path/line/rule
	// only, so map iteration order would leak into the output.
	var undefined []string
	for id := range used {
		if !defined[id] {
			undefined = append(undefined, id)
		}
	}
	sort.Strings(undefined)
	for _, id := range undefined {
		issues.Add(issue.Issue{
			Path:       path,
			Line:       lineAt(source, used[id]),
			Rule:       RuleUndefinedSetting,
			Severity:   issue.SeverityError,
			Message:    fmt.Sprintf("setting %q is referenced but not defined in the schema", id),
			Suggestion: "add the setting to the schema or fix the reference",
		})
	}

	var unused []string
	for id := range defined {
		if _, ok := used[id]; !ok {
			unused = append(unused, id)
		}
	}
	sort.Strings(unused)
	for _, id := range unused {
		issues.Add(issue.Issue{
			Path:     path,
			Line:     line,
			Rule:     RuleUnusedSetting,
			Severity: issue.SeverityWarning,
			Message:  fmt.Sprintf("setting %q is defined in the schema but never referenced", id),
		})
	}

	return issues
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// identBefore reads the identifier immediately preceding the '.' at
// offset, or "" if the preceding character is not part of an identifier.
func identBefore(s string, offset int) string {
	end := offset
	start := end
	for start > 0 && isIdentByte(s[start-1]) {
		start--
	}
	return s[start:end]
}

// identAfter reads the identifier starting at offset.
func identAfter(s string, offset int) string {
	end := offset
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	return s[offset:end]
}

func lineAt(s string, offset int) int {
	if offset > len(s) {
		offset = len(s)
	}
	return strings.Count(s[:offset], "\n") + 1
}
