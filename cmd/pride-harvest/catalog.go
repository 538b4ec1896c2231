// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pride-harvest/internal/catalog"
	"github.com/pdiddy/pride-harvest/internal/harvest"
	"github.com/pdiddy/pride-harvest/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the SQLite dataset catalog (load, search)",
	Long: `Catalog keeps harvested datasets in a local SQLite database with
full-text search over titles and keywords. Use subcommands to load a
combined results file or to query past harvests.`,
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load [results.json]",
	Short: "Ingest a combined results file into the catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogLoad,
}

func runCatalogLoad(cmd *cobra.Command, args []string) error {
	in := filepath.Join(viper.GetString("output_dir"), "combined_unique_results.json")
	if len(args) == 1 {
		in = args[0]
	}

	combined, err := harvest.ReadCombined(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	store, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Load(context.Background(), combined, os.Stdout)
	return err
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over cataloged dataset titles and keywords",
	RunE:  runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	query := strings.Join(args, " ")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(context.Background(), query, limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCatalogOutput(entries, jsonOutput)
}

func formatCatalogOutput(entries []catalog.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-60s  %s\n", "Accession", "Title", "Harvested")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))

	for _, e := range entries {
		title := e.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-60s  %s\n", e.Accession, title, e.HarvestedAt)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(entries))
	return nil
}

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("catalog_db")
	}
	maxResults, _ := cmd.Flags().GetInt("limit")

	return types.CatalogConfig{
		DBPath:     dbPath,
		MaxResults: maxResults,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("db", "", "catalog database path (default: <output_dir>/catalog.db)")
	catalogCmd.PersistentFlags().Int("limit", 0, "maximum search results (0 = default)")

	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	catalogCmd.AddCommand(catalogLoadCmd)
	catalogCmd.AddCommand(catalogSearchCmd)

	rootCmd.AddCommand(catalogCmd)
}
