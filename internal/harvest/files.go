// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/pride-harvest/pkg/types"
)

const (
	termFilePrefix = "search_"
	combinedFile   = "combined_unique_results.json"
	summaryFile    = "search_summary.txt"
	manifestFile   = "harvest_manifest.yaml"
)

// NormalizeTerm maps a search term to the slug used in its output filename:
// lowercased, with spaces (and their %20 encoding) replaced by underscores.
// The mapping is lossy: terms differing only in case share one file, and the
// later term's results overwrite the earlier ones.
func NormalizeTerm(term string) string {
	s := strings.ToLower(term)
	s = strings.ReplaceAll(s, "%20", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// TermFilePath returns the per-term output path for term inside dir.
func TermFilePath(dir, term string) string {
	return filepath.Join(dir, termFilePrefix+NormalizeTerm(term)+".json")
}

// WriteTermFile persists one term's accumulated datasets as
// {"datasets": [...]}. A term with no results gets an empty list, not null.
func WriteTermFile(dir, term string, datasets []types.Dataset) error {
	if datasets == nil {
		datasets = []types.Dataset{}
	}
	return writeJSON(TermFilePath(dir, term), types.TermResult{Datasets: datasets})
}

// ReadTermFile loads a per-term result file and returns its dataset list.
func ReadTermFile(path string) ([]types.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tr types.TermResult
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tr.Datasets, nil
}

// ReadCombined loads a combined result file (the deduplicated report or the
// filtered subset, which share a schema).
func ReadCombined(path string) (types.CombinedResult, error) {
	var cr types.CombinedResult
	data, err := os.ReadFile(path)
	if err != nil {
		return cr, err
	}
	if err := json.Unmarshal(data, &cr); err != nil {
		return cr, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cr, nil
}

// termFiles lists the per-term result files in dir in sorted order. This is
// the file-iteration order the merge and the dedup first-seen rule depend on.
func termFiles(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, termFilePrefix+"*.json"))
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

// writeJSON marshals v with indentation and writes it to path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
