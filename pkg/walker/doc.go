// Package walker enumerates the validatable files of a theme directory.
//
// It classifies each file by its place in the theme tree and reads the
// ones the validation pipeline understands: Liquid sources plus the
// JSON settings schema. Assets and unknown files are skipped up front
// so workers never see them.
package walker
