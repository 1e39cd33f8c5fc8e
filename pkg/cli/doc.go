/*
Package cli provides command-line interface utilities for csvlint.

The cli package includes output formatters, exit code handling, and common
CLI helpers used by the csvlint command.

Output Formatting:

The cli package supports text and JSON output formats for displaying
validation results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

Commands signal their outcome through CommandError, which carries the
process exit code:

	return cli.NewCommandErrorWithCode("check", cli.ExitDefects, err)

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
