// Package history persists validation run summaries so issue counts can
// be tracked over time.
//
// Runs are stored in SQLite keyed by a UUID. The retention pruner,
// driven by a cron schedule in watch mode or invoked directly by the
// history command, keeps the database bounded by age and run count.
package history
