package schema

import "themelab-hq/triton/pkg/theme"

// settingTypes is the enumerated set of setting types the platform
// accepts inside a schema block.
var settingTypes = map[string]bool{
	// basic input
	"checkbox": true,
	"number":   true,
	"radio":    true,
	"range":    true,
	"select":   true,
	"text":     true,
	"textarea": true,

	// specialized input
	"article":          true,
	"blog":             true,
	"collection":       true,
	"collection_list":  true,
	"color":            true,
	"color_background": true,
	"color_scheme":     true,
	"font_picker":      true,
	"html":             true,
	"image_picker":     true,
	"inline_richtext":  true,
	"link_list":        true,
	"liquid":           true,
	"page":             true,
	"product":          true,
	"product_list":     true,
	"richtext":         true,
	"text_alignment":   true,
	"url":              true,
	"video":            true,
	"video_url":        true,

	// sidebar-only, no value
	"header":    true,
	"paragraph": true,
}

// noIDTypes are informational setting types that carry no value and
// therefore need neither an ID nor uniqueness.
var noIDTypes = map[string]bool{
	"header":    true,
	"paragraph": true,
}

// reservedTopLevelKeys lists top-level schema keys that are illegal for a
// given file kind. enabled_on and disabled_on are reserved for app embed
// blocks; max_blocks is meaningful only on sections.
var reservedTopLevelKeys = map[theme.FileKind][]string{
	theme.KindSection: {"enabled_on", "disabled_on"},
	theme.KindBlock:   {"enabled_on", "disabled_on", "max_blocks"},
}

// KnownSettingType reports whether the type name is in the platform's
// enumerated set.
func KnownSettingType(name string) bool {
	return settingTypes[name]
}
