package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"cytosight/csvexport/pkg/cli"
	"cytosight/csvexport/pkg/dataset"
	"cytosight/csvexport/pkg/export"

	"github.com/spf13/cobra"
)

var exportFlags struct {
	output   string
	outDir   string
	progress bool
	format   string
}

var exportCmd = &cobra.Command{
	Use:   "export DOCUMENT DATASET...",
	Short: "Export datasets to CSV files",
	Long: `Export one or more datasets from a dataset document.

Each dataset is written to <dir>/<name>.csv, where <dir> is --out-dir or the
directory of the previous export. --output names the file explicitly and is
allowed with a single dataset only.

Point datasets with per-dimension properties also get a sidecar named
<name>_properties.csv next to the primary file.

Examples:
  # Export to a chosen file
  csvexport export cells.yaml cells -o out/cells.csv

  # Export several datasets into a directory with progress bars
  csvexport export cells.yaml cells groups --out-dir out --progress`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (single dataset only)")
	exportCmd.Flags().StringVar(&exportFlags.outDir, "out-dir", "", "output directory (default: last used directory)")
	exportCmd.Flags().BoolVar(&exportFlags.progress, "progress", false, "show a progress bar on stderr")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "text", "summary format: text, json, csv")
}

func runExport(cmd *cobra.Command, args []string) error {
	document, names := args[0], args[1:]
	if exportFlags.output != "" && len(names) > 1 {
		return cli.NewCommandError("export", "", errors.New("--output needs exactly one dataset"))
	}
	format, err := cli.ParseFormat(exportFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := dataset.LoadFile(document, cfg.Export.MaxLineageDepth)
	if err != nil {
		return cli.NewCommandError("export", document, err)
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	results, err := exportAll(ctx, a, cmd, store, names)
	if ferr := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.ResultTable(results)); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func exportAll(ctx context.Context, a *app, cmd *cobra.Command, store *dataset.Store, names []string) ([]*export.Result, error) {
	var results []*export.Result
	var errs []error

	for _, name := range names {
		h, err := store.Open(name)
		if err != nil {
			errs = append(errs, cli.NewCommandError("export", name, err))
			continue
		}

		var task export.Task
		if exportFlags.progress {
			task = cli.NewProgressReporter(cmd.ErrOrStderr())
		}

		result, err := a.exporter.Export(ctx, h, targetPath(a.exporter, h.Dataset), task)
		results = append(results, result)
		if err != nil {
			errs = append(errs, cli.NewCommandError("export", name, err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err := errors.Join(errs...); err != nil {
		return results, fmt.Errorf("%d of %d exports failed: %w", len(errs), len(names), err)
	}
	return results, nil
}

func targetPath(e *export.Exporter, ds dataset.Dataset) string {
	switch {
	case exportFlags.output != "":
		return exportFlags.output
	case exportFlags.outDir != "":
		return filepath.Join(exportFlags.outDir, ds.Name()+export.DefaultExtension)
	default:
		return e.SuggestPath(ds)
	}
}
