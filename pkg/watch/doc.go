// Package watch re-runs validation when theme files change.
//
// Filesystem events are debounced so an editor save burst or a git
// checkout triggers one re-validation, not dozens.
package watch
