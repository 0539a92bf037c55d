// Package logging provides structured logging for triton on top of
// log/slog.
//
// The CLI logs to stderr so report output on stdout stays clean and
// pipeable. Format and level come from the telemetry section of the
// configuration.
package logging
