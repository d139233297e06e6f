/*
Package cli provides helpers shared by the csvexport commands.

Output Formatting:

History listings and inspection reports implement Table and print as
aligned text, JSON or CSV:

	format, err := cli.ParseFormat(flag)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, runs)

Progress Reporting:

SimpleProgress implements export.Task and redraws one line per checkpoint:

	progress := cli.NewProgressReporter(os.Stderr)
	result, err := exporter.Export(ctx, handle, path, progress)

Signal Handling:

The first SIGINT or SIGTERM cancels the returned context, which stops an
export at its next checkpoint:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
