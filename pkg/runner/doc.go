// Package runner orchestrates a validation run over a theme.
//
// It drives the per-file pipeline (tokenize, structural pairing, pattern
// rules, schema checks) across a bounded worker pool, enforces the
// per-file timeout, consults the result cache, and aggregates everything
// into a sorted Report.
//
// Profiles select which rules run, at what severities, and what severity
// fails the run. The three canonical profiles trade thoroughness for
// speed: development for the edit loop, comprehensive for review,
// production for release gates.
package runner
