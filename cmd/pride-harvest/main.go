// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pride-harvest CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pride-harvest/internal/harvest"
	"github.com/pdiddy/pride-harvest/internal/pride"
	"github.com/pdiddy/pride-harvest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// timestampFmt matches the timestamp layout used in the report files.
const timestampFmt = "2006-01-02 15:04:05"

// rootCmd is the base command. Invoked bare, it runs the whole harvest
// pipeline with the configured term list; the subcommands cover the
// downstream stages (filter, export, catalog).
var rootCmd = &cobra.Command{
	Use:   "pride-harvest",
	Short: "Harvest and deduplicate PRIDE Archive dataset search results",
	Long: `pride-harvest queries the PRIDE Archive search API for every configured
keyword variant, pages through the results sequentially, and writes one JSON
file per term plus a combined report deduplicated by accession and a
plain-text summary.

Run with no arguments to execute the full harvest. Use the filter, export,
and catalog subcommands to post-process the combined results.`,
	RunE: runHarvest,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pride-harvest.yaml or ~/.config/pride-harvest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pride-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pride-harvest"))
		}
	}

	viper.SetEnvPrefix("PRIDE_HARVEST")
	viper.AutomaticEnv()

	viper.SetDefault("base_url", "https://www.ebi.ac.uk/pride/ws/archive/v2/search/projects")
	viper.SetDefault("output_dir", "pride_results")
	viper.SetDefault("page_size", 200)
	viper.SetDefault("result_type", "full")
	viper.SetDefault("species", "Homo sapiens")
	viper.SetDefault("timeout", "60s")
	viper.SetDefault("user_agent", "pride-harvest/0.1")
	viper.SetDefault("catalog_db", filepath.Join("pride_results", "catalog.db"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// harvestConfig assembles the harvest settings from configuration, falling
// back to the fixed term list when none is configured.
func harvestConfig() types.HarvestConfig {
	cfg := types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		BaseURL:    viper.GetString("base_url"),
		OutputDir:  viper.GetString("output_dir"),
		PageSize:   viper.GetInt("page_size"),
		ResultType: viper.GetString("result_type"),
		Species:    viper.GetString("species"),
		Terms:      viper.GetStringSlice("terms"),
	}
	if len(cfg.Terms) == 0 {
		cfg.Terms = types.DefaultTerms
	}
	return cfg
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg := harvestConfig()
	client := &pride.Client{HTTP: &http.Client{Timeout: cfg.Timeout}}

	_, err := harvest.Run(context.Background(), client, cfg, cfg.Terms, os.Stdout)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
