// Package issue defines the structured issue model produced by all
// validation passes.
//
// An Issue is immutable once created. Passes append issues to a List and
// never mutate or remove earlier entries, so a List can be safely merged
// from per-worker buffers at the end of a run.
package issue
