// Package cache stores per-file validation results keyed by a content
// digest, so unchanged files skip re-validation on subsequent runs.
//
// Two backends exist: an in-process map for one-shot runs and watch
// mode, and a SQLite store that survives process restarts for CI
// machines that check the same theme repeatedly.
package cache
