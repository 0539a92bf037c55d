// Package schema parses and validates the JSON settings blocks embedded
// in theme sections and blocks.
//
// Validation runs in a fixed order: structural JSON parse, top-level key
// legality for the file kind, per-setting type checks, the range step
// formula, ID uniqueness, and preset consistency. A malformed block
// yields a single Critical issue and never aborts the surrounding run.
package schema
