/*
Package cli provides command-line utilities for the triton command:
output formatting, report rendering, and signal handling.

Output Formatting:

Command results render as human-readable text by default and as JSON
with --format json:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should stop on shutdown
*/
package cli
