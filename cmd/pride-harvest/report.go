// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pride-harvest/internal/harvest"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rebuild the combined report from per-term files on disk",
	Long: `Report re-merges the per-term result files already in the output
directory, deduplicates them by accession, and rewrites the combined report,
the text summary, and the run manifest. No API requests are made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := harvestConfig()
		_, err := harvest.Rebuild(cfg, cfg.Terms, os.Stdout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
