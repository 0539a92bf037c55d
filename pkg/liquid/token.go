package liquid

import (
	"strings"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/theme"
)

// TagToken is a single {% ... %} tag occurrence.
//
// Tokens are consumed by structural checks and pattern rules during the
// validation of one file and discarded afterwards; nothing retains them
// across files.
type TagToken struct {
	// Name is the tag keyword ("if", "for", "endif", ...).
	Name string
	// Args is the remainder of the tag after the keyword, trimmed.
	Args string
	// Closing reports whether the tag is an end tag ("endif", "endfor").
	Closing bool
	// Offset is the byte offset of the opening "{%" in the source and
	// End the offset just past the closing "%}".
	Offset int
	End    int
	// Line is the 1-based line of the opening "{%".
	Line int
}

// BaseName returns the paired tag name an end tag closes ("endif" ->
// "if"). For non-closing tags it returns Name unchanged.
func (t TagToken) BaseName() string {
	if t.Closing {
		return strings.TrimPrefix(t.Name, "end")
	}
	return t.Name
}

// OutputToken is a single {{ ... }} output expression.
type OutputToken struct {
	// Expr is the expression between the braces, trimmed.
	Expr string
	// Offset is the byte offset of the opening "{{" and End the offset
	// just past the closing "}}".
	Offset int
	End    int
	// Line is the 1-based line of the opening "{{".
	Line int
}

// BlockRange identifies the body of an embedded schema block.
type BlockRange struct {
	// Start and End are byte offsets into the source delimiting the JSON
	// body, exclusive of the schema tags themselves.
	Start int
	End   int
	// Line is the 1-based line of the opening schema tag.
	Line int
}

// Document is the tokenized form of one theme file.
type Document struct {
	Path   string
	Kind   theme.FileKind
	Source string

	Tags    []TagToken
	Outputs []OutputToken
	Schemas []BlockRange

	// Issues holds structural problems found while scanning (unterminated
	// markers and blocks).
	Issues *issue.List
}

// pairedTags are control tags that require a matching end tag.
// raw, comment, schema, style and javascript blocks are consumed whole by
// the scanner and never reach the pairing check.
var pairedTags = map[string]bool{
	"if":       true,
	"unless":   true,
	"case":     true,
	"for":      true,
	"capture":  true,
	"tablerow": true,
	"paginate": true,
	"form":     true,
}

// selfClosingTags stand alone and never take an end tag.
var selfClosingTags = map[string]bool{
	"assign":    true,
	"echo":      true,
	"include":   true,
	"render":    true,
	"section":   true,
	"sections":  true,
	"layout":    true,
	"cycle":     true,
	"when":      true,
	"else":      true,
	"elsif":     true,
	"break":     true,
	"continue":  true,
	"increment": true,
	"decrement": true,
	"liquid":    true,
}

// IsPaired reports whether the tag name opens a paired block.
func IsPaired(name string) bool { return pairedTags[name] }

// IsSelfClosing reports whether the tag name stands alone.
func IsSelfClosing(name string) bool { return selfClosingTags[name] }

// IsKnownTag reports whether the tag name belongs to the Liquid dialect:
// a paired or self-closing tag, or the end tag of a paired, opaque or
// schema block. Opaque and schema blocks are normally consumed whole by
// the scanner, so their end tags only surface as tokens when orphaned.
func IsKnownTag(name string) bool {
	if pairedTags[name] || selfClosingTags[name] {
		return true
	}
	if base, ok := strings.CutPrefix(name, "end"); ok {
		if pairedTags[base] || base == "schema" {
			return true
		}
		if _, opaque := opaqueBlocks[base]; opaque {
			return true
		}
	}
	return false
}
