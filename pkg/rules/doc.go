// Package rules evaluates declarative pattern rules over tokenized
// Liquid documents.
//
// Every matcher is either a membership check against a fixed registry
// (tag, filter and object allow-lists) or a single bounded pass over the
// token stream or source lines. Matchers never run unconstrained greedy
// patterns across the whole file; worst-case time must stay linear in
// input size.
//
// Rules are stateless and shared: the same Rule values are used across
// files and goroutines. A panicking matcher is caught by the engine and
// reported as a single Warning, never aborting the file.
package rules
