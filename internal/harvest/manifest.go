// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pride-harvest/pkg/types"
)

// Manifest is the machine-readable record of one harvest run
// (harvest_manifest.yaml): the parameters that produced the results and the
// resulting counts. A later run can be compared against it without re-parsing
// the JSON artifacts.
type Manifest struct {
	Config  ManifestConfig  `yaml:"config"`
	Terms   []string        `yaml:"terms"`
	Summary ManifestSummary `yaml:"summary"`
}

// ManifestConfig stores the search parameters in a serializable form.
type ManifestConfig struct {
	BaseURL    string `yaml:"base_url"`
	PageSize   int    `yaml:"page_size"`
	ResultType string `yaml:"result_type"`
	Species    string `yaml:"species"`
	OutputDir  string `yaml:"output_dir"`
}

// ManifestSummary stores run statistics and a timestamp.
type ManifestSummary struct {
	Merged            int         `yaml:"merged"`
	Unique            int         `yaml:"unique"`
	DuplicatesRemoved int         `yaml:"duplicates_removed"`
	MissingAccession  int         `yaml:"missing_accession,omitempty"`
	TermCounts        []TermCount `yaml:"term_counts"`
	Timestamp         time.Time   `yaml:"timestamp"`
}

// WriteManifest saves the run record to dir/harvest_manifest.yaml.
func WriteManifest(dir string, cfg types.HarvestConfig, terms []string, result Result, now time.Time) error {
	m := Manifest{
		Config: ManifestConfig{
			BaseURL:    cfg.BaseURL,
			PageSize:   cfg.PageSize,
			ResultType: cfg.ResultType,
			Species:    cfg.Species,
			OutputDir:  cfg.OutputDir,
		},
		Terms: terms,
		Summary: ManifestSummary{
			Merged:            result.Merged,
			Unique:            result.Unique,
			DuplicatesRemoved: result.DuplicatesRemoved,
			MissingAccession:  result.MissingAccession,
			TermCounts:        result.TermCounts,
			Timestamp:         now,
		},
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644)
}

// ReadManifest loads a previously written run record.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
