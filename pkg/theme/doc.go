// Package theme classifies storefront theme files by their location in
// the theme tree.
//
// Classification is purely path-based and never fails: a path under an
// unrecognized directory maps to KindUnknown, which disables schema
// placement and kind-specific rules while generic structural and security
// rules still apply.
package theme
