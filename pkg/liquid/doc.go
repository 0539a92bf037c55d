// Package liquid tokenizes Liquid template source without rendering it.
//
// The scanner is a single left-to-right pass over the raw bytes with a
// small explicit state machine. It deliberately avoids regular
// expressions over the whole file: greedy patterns over template source
// are the classic way to hit catastrophic backtracking on large files,
// and every consumer of this package depends on the scan being linear in
// input size.
//
// The scanner produces tag and output tokens plus the byte ranges of
// embedded schema blocks. Raw, comment, style and schema bodies are
// consumed by the scanner itself so downstream rules never see their
// contents as Liquid.
package liquid
