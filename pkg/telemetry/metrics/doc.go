// Package metrics exposes Prometheus metrics for validation runs.
//
// Metrics mostly matter in watch mode and CI daemons, where triton runs
// repeatedly: files scanned, issues by severity, per-rule evaluation
// time, timeouts, and cache effectiveness. One-shot CLI runs can ignore
// the collector entirely.
package metrics
