package schema

import (
	"fmt"
	"math"
	"strconv"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/theme"
)

// Rule IDs for schema validation issues.
const (
	RuleInvalidJSON         = "schema/invalid-json"
	RuleMissingSchema       = "schema/missing"
	RuleReservedKey         = "schema/reserved-key"
	RuleUnknownType         = "schema/unknown-type"
	RuleMissingField        = "schema/missing-field"
	RuleWrongFieldType      = "schema/wrong-field-type"
	RuleRangeStep           = "schema/range-step"
	RuleDuplicateID         = "schema/duplicate-id"
	RulePresetUndefined     = "schema/preset-undefined-setting"
	RulePresetOutOfRange    = "schema/preset-out-of-range"
	RulePresetInvalidOption = "schema/preset-invalid-option"
)

// maxRangeSteps is the platform limit on the number of steps a range
// setting may have: (max-min)/step must not exceed it.
const maxRangeSteps = 101

// Validate parses and validates one schema block body.
//
// line is the 1-based line of the opening schema tag; JSON positions
// inside the block are not tracked, so every issue is reported at the
// block's opening line.
func Validate(path string, kind theme.FileKind, line int, body string) *issue.List {
	issues := issue.NewList()

	doc, err := Parse(body)
	if err != nil {
		issues.Add(issue.Issue{
			Path:     path,
			Line:     line,
			Rule:     RuleInvalidJSON,
			Severity: issue.SeverityCritical,
			Message:  fmt.Sprintf("malformed schema block: %v", err),
		})
		return issues
	}

	checkReservedKeys(issues, path, kind, line, doc)
	checkSettingsList(issues, path, line, doc.Settings, "settings")
	for _, group := range doc.Blocks {
		scope := fmt.Sprintf("block %q settings", group.Type)
		checkSettingsList(issues, path, line, group.Settings, scope)
	}
	checkPresets(issues, path, line, doc)

	return issues
}

// CheckPresence reports a missing schema block for kinds that require
// one.
func CheckPresence(path string, kind theme.FileKind, hasSchema bool) *issue.List {
	issues := issue.NewList()
	if kind.RequiresSchema() && !hasSchema {
		issues.Add(issue.Issue{
			Path:       path,
			Rule:       RuleMissingSchema,
			Severity:   issue.SeverityError,
			Message:    fmt.Sprintf("missing schema block: required for %s files", kind),
			Suggestion: "add a {% schema %} ... {% endschema %} block",
		})
	}
	return issues
}

func checkReservedKeys(issues *issue.List, path string, kind theme.FileKind, line int, doc *Document) {
	for _, key := range reservedTopLevelKeys[kind] {
		if _, present := doc.Raw[key]; present {
			issues.Add(issue.Issue{
				Path:     path,
				Line:     line,
				Rule:     RuleReservedKey,
				Severity: issue.SeverityError,
				Message:  fmt.Sprintf("schema key %q is not allowed in a %s schema", key, kind),
			})
		}
	}
}

// checkSettingsList validates one settings list: type membership,
// required fields, the range formula, and ID uniqueness within the list.
func checkSettingsList(issues *issue.List, path string, line int, settings []Setting, scope string) {
	seen := map[string]bool{}

	for _, s := range settings {
		if s.Type == "" {
			issues.Add(issue.Issue{
				Path:     path,
				Line:     line,
				Rule:     RuleMissingField,
				Severity: issue.SeverityError,
				Message:  fmt.Sprintf("setting %s in %s has no type", s.Label(), scope),
			})
			continue
		}
		if !KnownSettingType(s.Type) {
			issues.Add(issue.Issue{
				Path:       path,
				Line:       line,
				Rule:       RuleUnknownType,
				Severity:   issue.SeverityError,
				Message:    fmt.Sprintf("setting %s in %s has unknown type %q", s.Label(), scope, s.Type),
				Suggestion: "use one of the documented setting types",
			})
			continue
		}

		if noIDTypes[s.Type] {
			continue
		}

		if s.ID == "" {
			issues.Add(issue.Issue{
				Path:     path,
				Line:     line,
				Rule:     RuleMissingField,
				Severity: issue.SeverityError,
				Message:  fmt.Sprintf("%s setting %s in %s has no id", s.Type, s.Label(), scope),
			})
		} else if seen[s.ID] {
			// One error per duplicate beyond the first occurrence.
			issues.Add(issue.Issue{
				Path:     path,
				Line:     line,
				Rule:     RuleDuplicateID,
				Severity: issue.SeverityError,
				Message:  fmt.Sprintf("duplicate setting id %q in %s", s.ID, scope),
			})
		} else {
			seen[s.ID] = true
		}

		switch s.Type {
		case "range":
			checkRange(issues, path, line, s)
		case "select", "radio":
			checkOptions(issues, path, line, s)
		}
	}
}

// checkRange enforces the platform's range formula:
// (max-min)/step <= 101 and step >= 0.1 (>= 1 when min and max are
// integers). Exactly one Error is produced per violating setting, with
// the corrective step value.
func checkRange(issues *issue.List, path string, line int, s Setting) {
	min, okMin := number(s.Raw["min"])
	max, okMax := number(s.Raw["max"])
	step, okStep := number(s.Raw["step"])

	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"min", okMin},
		{"max", okMax},
		{"step", okStep},
		{"default", hasNumber(s.Raw, "default")},
	} {
		if !f.ok {
			sev := issue.SeverityError
			msg := fmt.Sprintf("range setting %s is missing numeric field %q", s.Label(), f.name)
			if _, present := s.Raw[f.name]; present {
				msg = fmt.Sprintf("range setting %s field %q must be a number, not a string", s.Label(), f.name)
				issues.Add(issue.Issue{Path: path, Line: line, Rule: RuleWrongFieldType, Severity: sev, Message: msg})
				continue
			}
			issues.Add(issue.Issue{Path: path, Line: line, Rule: RuleMissingField, Severity: sev, Message: msg})
		}
	}
	// The formula needs only min, max and step; a missing default must
	// not suppress it.
	if !okMin || !okMax || !okStep {
		return
	}
	if step <= 0 {
		issues.Add(issue.Issue{
			Path:     path,
			Line:     line,
			Rule:     RuleRangeStep,
			Severity: issue.SeverityError,
			Message:  fmt.Sprintf("range setting %s has non-positive step", s.Label()),
		})
		return
	}

	minStep := 0.1
	if isIntegral(min) && isIntegral(max) {
		minStep = 1
	}

	steps := (max - min) / step
	if steps > maxRangeSteps || step < minStep {
		suggested := math.Ceil((max - min) / maxRangeSteps)
		if suggested < minStep {
			suggested = minStep
		}
		issues.Add(issue.Issue{
			Path:     path,
			Line:     line,
			Rule:     RuleRangeStep,
			Severity: issue.SeverityError,
			Message: fmt.Sprintf("range setting %s violates (max-min)/step <= %d: (%s-%s)/%s = %s",
				s.Label(), maxRangeSteps, formatNum(max), formatNum(min), formatNum(step), formatNum(steps)),
			Suggestion: fmt.Sprintf("use step: %s", formatNum(suggested)),
		})
	}
}

func checkOptions(issues *issue.List, path string, line int, s Setting) {
	options, ok := s.Raw["options"].([]any)
	if !ok || len(options) == 0 {
		issues.Add(issue.Issue{
			Path:     path,
			Line:     line,
			Rule:     RuleMissingField,
			Severity: issue.SeverityError,
			Message:  fmt.Sprintf("%s setting %s has no options list", s.Type, s.Label()),
		})
	}
}

func checkPresets(issues *issue.List, path string, line int, doc *Document) {
	defined := map[string]Setting{}
	for _, s := range doc.Settings {
		if s.ID != "" {
			defined[s.ID] = s
		}
	}

	for _, preset := range doc.Presets {
		for id, value := range preset.Settings {
			def, ok := defined[id]
			if !ok {
				issues.Add(issue.Issue{
					Path:     path,
					Line:     line,
					Rule:     RulePresetUndefined,
					Severity: issue.SeverityError,
					Message:  fmt.Sprintf("preset %q sets undefined setting %q", preset.Name, id),
				})
				continue
			}

			switch def.Type {
			case "range":
				v, okV := number(value)
				min, okMin := number(def.Raw["min"])
				max, okMax := number(def.Raw["max"])
				if okV && okMin && okMax && (v < min || v > max) {
					issues.Add(issue.Issue{
						Path:     path,
						Line:     line,
						Rule:     RulePresetOutOfRange,
						Severity: issue.SeverityError,
						Message: fmt.Sprintf("preset %q range setting %q value %s outside [%s, %s]",
							preset.Name, id, formatNum(v), formatNum(min), formatNum(max)),
					})
				}
			case "select", "radio":
				str, okV := value.(string)
				if !okV {
					continue
				}
				if options, ok := def.Raw["options"].([]any); ok && len(options) > 0 && !optionExists(options, str) {
					issues.Add(issue.Issue{
						Path:     path,
						Line:     line,
						Rule:     RulePresetInvalidOption,
						Severity: issue.SeverityError,
						Message: fmt.Sprintf("preset %q %s setting %q value %q is not a declared option",
							preset.Name, def.Type, id, str),
					})
				}
			}
		}
	}
}

func optionExists(options []any, value string) bool {
	for _, opt := range options {
		obj, ok := opt.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := obj["value"].(string); ok && v == value {
			return true
		}
	}
	return false
}

// number extracts a JSON number. Stringified numbers do not count: the
// platform requires numeric fields to be JSON numbers.
func number(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func hasNumber(raw map[string]any, key string) bool {
	_, ok := number(raw[key])
	return ok
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f)
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
