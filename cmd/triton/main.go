// Triton is a static analysis engine for Liquid storefront themes.
//
// It tokenizes theme files in a single pass, checks tag pairing and
// nesting, runs a registry of pattern rules (unknown and hallucinated
// filters, unescaped user content, performance killers, theme-store
// hygiene), validates embedded settings schemas, and can rewrite
// mechanically fixable issues in place.
//
// Usage:
//
//	# Validate the theme in the current directory
//	triton check
//
//	# Validate with the full rule set, JSON output for CI
//	triton check --profile comprehensive --format json path/to/theme
//
//	# Apply safe auto-fixes
//	triton fix path/to/theme
//
//	# Re-validate on every change
//	triton watch path/to/theme
//
//	# Inspect past runs
//	triton history --limit 10
package main

import "os"

func main() {
	os.Exit(Execute())
}
