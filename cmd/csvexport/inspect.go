package main

import (
	"cytosight/csvexport/pkg/cli"
	"cytosight/csvexport/pkg/dataset"
	"cytosight/csvexport/pkg/export"

	"github.com/spf13/cobra"
)

var inspectFlags struct {
	format string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect DOCUMENT [DATASET...]",
	Short: "Show how datasets would be exported",
	Long: `Show, for each dataset, where its row labels come from, which properties
go to the "_properties" sidecar and which are dropped. Nothing is written.

With no DATASET arguments every dataset in the document is shown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectFlags.format, "format", "text", "output format: text, json, csv")
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(inspectFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := dataset.LoadFile(args[0], cfg.Export.MaxLineageDepth)
	if err != nil {
		return cli.NewCommandError("inspect", args[0], err)
	}

	names := args[1:]
	if len(names) == 0 {
		names = store.Names()
	}

	table := make(cli.DescriptionTable, 0, len(names))
	for _, name := range names {
		h, err := store.Open(name)
		if err != nil {
			return cli.NewCommandError("inspect", name, err)
		}
		d, err := export.Describe(h)
		if err != nil {
			return cli.NewCommandError("inspect", name, err)
		}
		table = append(table, d)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}
