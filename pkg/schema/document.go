package schema

import (
	"encoding/json"
	"fmt"
)

// Document is the parsed form of one embedded schema block.
type Document struct {
	// Raw holds every top-level key for placement checks.
	Raw map[string]any

	// Settings is the ordered top-level settings list.
	Settings []Setting

	// Blocks are nested setting groups, each with its own settings list.
	Blocks []BlockGroup

	// Presets are preset definitions supplying default setting values.
	Presets []Preset
}

// Setting is a single typed configuration field.
type Setting struct {
	ID   string
	Type string
	// Raw holds the full setting object for type-specific field checks.
	Raw map[string]any
	// Index is the position within the enclosing settings list, used in
	// messages when the setting has no ID.
	Index int
}

// BlockGroup is a nested block definition with its own settings.
type BlockGroup struct {
	Type     string
	Name     string
	Settings []Setting
}

// Preset is a named preset with concrete setting values.
type Preset struct {
	Name     string
	Settings map[string]any
}

// Parse decodes a schema block body. It returns an error for malformed
// JSON or a top level that is not an object; field-level problems are
// left to Validate.
func Parse(body string) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	doc := &Document{Raw: raw}
	doc.Settings = parseSettings(raw["settings"])

	if blocks, ok := raw["blocks"].([]any); ok {
		for _, b := range blocks {
			group, ok := b.(map[string]any)
			if !ok {
				continue
			}
			bg := BlockGroup{
				Settings: parseSettings(group["settings"]),
			}
			bg.Type, _ = group["type"].(string)
			bg.Name, _ = group["name"].(string)
			doc.Blocks = append(doc.Blocks, bg)
		}
	}

	if presets, ok := raw["presets"].([]any); ok {
		for i, p := range presets {
			obj, ok := p.(map[string]any)
			if !ok {
				continue
			}
			preset := Preset{Settings: map[string]any{}}
			preset.Name, _ = obj["name"].(string)
			if preset.Name == "" {
				preset.Name = fmt.Sprintf("preset %d", i+1)
			}
			if values, ok := obj["settings"].(map[string]any); ok {
				preset.Settings = values
			}
			doc.Presets = append(doc.Presets, preset)
		}
	}

	return doc, nil
}

func parseSettings(v any) []Setting {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	settings := make([]Setting, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s := Setting{Raw: obj, Index: i}
		s.ID, _ = obj["id"].(string)
		s.Type, _ = obj["type"].(string)
		settings = append(settings, s)
	}
	return settings
}

// Label returns the best human name for a setting: its ID, or its
// position if it has none.
func (s Setting) Label() string {
	if s.ID != "" {
		return fmt.Sprintf("%q", s.ID)
	}
	return fmt.Sprintf("at index %d", s.Index)
}
