package theme

import (
	"path"
	"path/filepath"
	"strings"
)

// FileKind is the classification of a theme source file. It determines
// which rule sets and schema placement constraints apply.
type FileKind string

const (
	// KindSection is a composable page section with its own schema block.
	KindSection FileKind = "section"
	// KindBlock is a reusable theme block nested inside sections.
	KindBlock FileKind = "block"
	// KindSnippet is a rendered partial without a schema.
	KindSnippet FileKind = "snippet"
	// KindLayout is a top-level layout wrapper (theme.liquid and friends).
	KindLayout FileKind = "layout"
	// KindTemplate is a page template, either Liquid or JSON.
	KindTemplate FileKind = "template"
	// KindLocale is a translation JSON file.
	KindLocale FileKind = "locale"
	// KindConfig is a theme-level settings file.
	KindConfig FileKind = "config"
	// KindAsset is a static asset (CSS, JS, images).
	KindAsset FileKind = "asset"
	// KindUnknown is any file outside the recognized tree layout.
	KindUnknown FileKind = "unknown"
)

// dirKinds maps a theme directory name to the kind of files it holds.
// Both singular and plural spellings occur in the wild.
var dirKinds = map[string]FileKind{
	"sections":  KindSection,
	"blocks":    KindBlock,
	"snippets":  KindSnippet,
	"layout":    KindLayout,
	"layouts":   KindLayout,
	"templates": KindTemplate,
	"locales":   KindLocale,
	"config":    KindConfig,
	"assets":    KindAsset,
}

// Classify maps a file path to its FileKind based on the nearest
// recognized parent directory. It is a pure function, performs no I/O,
// and never fails; unrecognized paths return KindUnknown.
func Classify(p string) FileKind {
	p = filepath.ToSlash(p)

	// Walk parent directories from innermost outward so
	// "templates/customers/login.liquid" classifies as a template.
	dir := path.Dir(p)
	for dir != "." && dir != "/" && dir != "" {
		if kind, ok := dirKinds[path.Base(dir)]; ok {
			return kind
		}
		dir = path.Dir(dir)
	}

	return KindUnknown
}

// IsLiquid reports whether the path names a Liquid source file.
func IsLiquid(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".liquid")
}

// HasSchema reports whether files of this kind may carry an embedded
// schema block. Snippets and layouts never do; templates only in the
// legacy Liquid format, so they are accepted but not required.
func (k FileKind) HasSchema() bool {
	switch k {
	case KindSection, KindBlock, KindTemplate:
		return true
	default:
		return false
	}
}

// RequiresSchema reports whether a missing schema block is an error for
// this kind.
func (k FileKind) RequiresSchema() bool {
	return k == KindSection || k == KindBlock
}

// String returns the kind name.
func (k FileKind) String() string {
	return string(k)
}
