package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "csvexport",
	Short: "Export cytometry datasets to CSV",
	Long: `csvexport writes point and cluster datasets from a dataset document to
comma-delimited text files.

Point datasets become one line per point, labelled by "Sample Names" from the
dataset or its nearest ancestor, plus a "_properties" sidecar for per-dimension
properties. Cluster datasets become "ID,Cluster,Color" lines.

Fields are never quoted; commas inside names are replaced with underscores.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
