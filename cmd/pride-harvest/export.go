// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pride-harvest/internal/export"
	"github.com/pdiddy/pride-harvest/internal/harvest"
)

var exportCmd = &cobra.Command{
	Use:   "export [results.json]",
	Short: "Export a results file to tab-separated values",
	Long: `Export flattens a results file (combined or filtered) into a TSV with one
row per dataset, for spreadsheet triage. Defaults to the combined results in
the configured output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("out", "", "output TSV path (default: input path with .tsv extension)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	in := filepath.Join(viper.GetString("output_dir"), "combined_unique_results.json")
	if len(args) == 1 {
		in = args[0]
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".tsv"
	}

	combined, err := harvest.ReadCombined(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if err := export.WriteTSV(f, combined.Datasets); err != nil {
		return err
	}

	fmt.Printf("Exported %d datasets to %s\n", len(combined.Datasets), out)
	return nil
}
