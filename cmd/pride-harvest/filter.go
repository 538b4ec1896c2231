// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pride-harvest/internal/filter"
	"github.com/pdiddy/pride-harvest/internal/harvest"
	"github.com/pdiddy/pride-harvest/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Narrow combined results to the strict study criteria",
	Long: `Filter reads the combined results file and keeps only datasets matching
all three strict criteria: immunopeptidomics vocabulary, cancer vocabulary,
and a timsTOF instrument. The output uses the combined-results schema.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("in", "", "combined results file (default: <output_dir>/combined_unique_results.json)")
	filterCmd.Flags().String("out", "", "filtered output file (default: <output_dir>/filtered_strict_results.json)")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	outputDir := viper.GetString("output_dir")

	in, _ := cmd.Flags().GetString("in")
	if in == "" {
		in = filepath.Join(outputDir, "combined_unique_results.json")
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(outputDir, "filtered_strict_results.json")
	}

	combined, err := harvest.ReadCombined(in)
	if err != nil {
		return fmt.Errorf("reading combined results: %w", err)
	}

	matched := filter.Apply(combined.Datasets, os.Stdout)

	filtered := types.CombinedResult{
		Datasets:            matched,
		TotalUniqueDatasets: len(matched),
		SearchTimestamp:     time.Now().Format(timestampFmt),
	}
	data, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling filtered results: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing filtered results: %w", err)
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}
