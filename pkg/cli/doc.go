/*
Package cli provides command-line helpers for the a365 tool.

Output Formatting:

Command results are printed as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Errors:

ConfigError and CommandError wrap failures so the process exits with a
distinguishable status (see ExitCode).

Signal Handling:

For cancelling in-flight deliveries on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
