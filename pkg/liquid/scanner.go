package liquid

import (
	"fmt"
	"strings"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/theme"
)

// Rule IDs for structural issues emitted by the scanner and pairing check.
const (
	RuleUnterminatedOutput = "liquid/unterminated-output"
	RuleUnterminatedTag    = "liquid/unterminated-tag"
	RuleUnterminatedBlock  = "liquid/unterminated-block"
	RuleUnclosedTag        = "liquid/unclosed-tag"
	RuleUnmatchedEndTag    = "liquid/unmatched-end-tag"
	RuleMismatchedTags     = "liquid/mismatched-tags"
	RuleNestingDepth       = "liquid/nesting-depth"
)

// MaxNestingDepth is the platform limit on nested control tags.
const MaxNestingDepth = 8

// blocks whose bodies are opaque to Liquid validation. Their content is
// JSON, CSS, JS or literal text, so emitting tokens from them would only
// produce false positives.
var opaqueBlocks = map[string]string{
	"raw":        "endraw",
	"comment":    "endcomment",
	"style":      "endstyle",
	"javascript": "endjavascript",
}

// scanner holds the state of one pass over a file.
//
// noOutputClose and noTagClose remember the offset from which a closing
// marker is known to be absent. Once a search for "}}" fails there is no
// closer anywhere to EOF, so later open markers must not rescan the tail;
// without this the scan degrades to quadratic time on files full of
// stray braces.
type scanner struct {
	doc *Document
	src string

	noOutputClose int
	noTagClose    int

	reportedOutput bool
	reportedTag    bool
}

// Scan tokenizes src in a single left-to-right pass.
//
// The scan never fails: unterminated markers and blocks are recorded as
// Critical issues on the returned document and scanning continues past
// them. An unterminated marker is reported once per file; every open
// marker after it shares the same root cause.
func Scan(path string, kind theme.FileKind, src string) *Document {
	doc := &Document{
		Path:   path,
		Kind:   kind,
		Source: src,
		Issues: issue.NewList(),
	}
	s := &scanner{
		doc:           doc,
		src:           src,
		noOutputClose: -1,
		noTagClose:    -1,
	}

	i := 0
	line := 1
	n := len(src)

	for i < n {
		c := src[i]
		if c == '\n' {
			line++
			i++
			continue
		}
		if c != '{' || i+1 >= n {
			i++
			continue
		}

		var next int
		switch src[i+1] {
		case '{':
			next = s.scanOutput(i, line)
		case '%':
			next = s.scanTag(i, line)
		default:
			i++
			continue
		}
		line += strings.Count(src[i:next], "\n")
		i = next
	}

	return doc
}

// findClose locates marker close from offset, honoring the known-absent
// cache. It returns the index of close relative to src, or -1.
func (s *scanner) findClose(close string, from int, cache *int) int {
	if *cache >= 0 && from >= *cache {
		return -1
	}
	rel := strings.Index(s.src[from:], close)
	if rel < 0 {
		*cache = from
		return -1
	}
	return from + rel
}

// scanOutput consumes a {{ ... }} marker starting at offset. It returns
// the offset to resume scanning from.
func (s *scanner) scanOutput(offset, line int) int {
	end := s.findClose("}}", offset+2, &s.noOutputClose)
	if end < 0 {
		if !s.reportedOutput {
			s.reportedOutput = true
			s.doc.Issues.Add(issue.Issue{
				Path:     s.doc.Path,
				Line:     line,
				Rule:     RuleUnterminatedOutput,
				Severity: issue.SeverityCritical,
				Message:  "unterminated output marker: '{{' with no closing '}}'",
			})
		}
		return offset + 2
	}

	s.doc.Outputs = append(s.doc.Outputs, OutputToken{
		Expr:   trimMarker(s.src[offset+2 : end]),
		Offset: offset,
		End:    end + 2,
		Line:   line,
	})
	return end + 2
}

// scanTag consumes a {% ... %} marker starting at offset, including the
// whole body of opaque and schema blocks. It returns the offset to resume
// scanning from.
func (s *scanner) scanTag(offset, line int) int {
	end := s.findClose("%}", offset+2, &s.noTagClose)
	if end < 0 {
		if !s.reportedTag {
			s.reportedTag = true
			s.doc.Issues.Add(issue.Issue{
				Path:     s.doc.Path,
				Line:     line,
				Rule:     RuleUnterminatedTag,
				Severity: issue.SeverityCritical,
				Message:  "unterminated tag marker: '{%' with no closing '%}'",
			})
		}
		return offset + 2
	}

	inner := trimMarker(s.src[offset+2 : end])
	tagEnd := end + 2

	name, args := splitTag(inner)
	if name == "" {
		return tagEnd
	}

	if endName, ok := opaqueBlocks[name]; ok {
		_, resume, found := s.findBlockEnd(tagEnd, endName)
		if !found {
			s.doc.Issues.Add(issue.Issue{
				Path:     s.doc.Path,
				Line:     line,
				Rule:     RuleUnterminatedBlock,
				Severity: issue.SeverityCritical,
				Message:  fmt.Sprintf("unterminated %s block: missing {%% %s %%}", name, endName),
			})
			return tagEnd
		}
		return resume
	}

	if name == "schema" {
		bodyEnd, resume, found := s.findBlockEnd(tagEnd, "endschema")
		if !found {
			s.doc.Issues.Add(issue.Issue{
				Path:     s.doc.Path,
				Line:     line,
				Rule:     RuleUnterminatedBlock,
				Severity: issue.SeverityCritical,
				Message:  "unterminated schema block: missing {% endschema %}",
			})
			return tagEnd
		}
		s.doc.Schemas = append(s.doc.Schemas, BlockRange{
			Start: tagEnd,
			End:   bodyEnd,
			Line:  line,
		})
		return resume
	}

	s.doc.Tags = append(s.doc.Tags, TagToken{
		Name:    name,
		Args:    args,
		Closing: strings.HasPrefix(name, "end"),
		Offset:  offset,
		End:     tagEnd,
		Line:    line,
	})
	return tagEnd
}

// findBlockEnd locates the closing tag of an opaque block. It scans
// forward marker by marker rather than matching the whole body with a
// pattern, so the cost stays linear even on very large blocks.
//
// It returns the offset of the closing "{%", the offset just past its
// "%}", and whether it was found.
func (s *scanner) findBlockEnd(from int, endName string) (bodyEnd, resume int, found bool) {
	pos := from
	for {
		rel := strings.Index(s.src[pos:], "{%")
		if rel < 0 {
			return 0, 0, false
		}
		open := pos + rel
		end := s.findClose("%}", open+2, &s.noTagClose)
		if end < 0 {
			return 0, 0, false
		}
		name, _ := splitTag(trimMarker(s.src[open+2 : end]))
		if name == endName {
			return open, end + 2, true
		}
		pos = end + 2
	}
}

// trimMarker strips whitespace-control dashes and surrounding whitespace
// from marker content.
func trimMarker(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	return strings.TrimSpace(s)
}

// splitTag splits tag content into the tag keyword and its arguments.
func splitTag(inner string) (name, args string) {
	if inner == "" {
		return "", ""
	}
	if idx := strings.IndexAny(inner, " \t\r\n"); idx >= 0 {
		return inner[:idx], strings.TrimSpace(inner[idx+1:])
	}
	return inner, ""
}
