// Package autofix applies deterministic textual fixes produced by rule
// matchers.
//
// Fixes are plain byte-span substitutions. Overlapping spans are never
// applied together: the earliest span wins and the rest are deferred, so
// a caller that wants them applied must revalidate and run a second
// pass. Because every fix rewrites its span into a form the originating
// rule no longer matches, applying the same rule set twice yields zero
// fixes on the second pass.
package autofix
