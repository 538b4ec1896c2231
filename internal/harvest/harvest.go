// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest runs the search pipeline: fetch every term's pages, merge
// the per-term files, deduplicate by accession, and write the combined
// report, the text summary, and the run manifest.
package harvest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/pride-harvest/internal/pride"
	"github.com/pdiddy/pride-harvest/pkg/types"
)

// timestampFmt is the report timestamp layout ("YYYY-MM-DD HH:MM:SS").
const timestampFmt = "2006-01-02 15:04:05"

// TermCount pairs a search term with the dataset count in its output file.
type TermCount struct {
	Term  string `yaml:"term"`
	Count int    `yaml:"count"`
}

// Result summarizes one pipeline run.
type Result struct {
	// TermCounts holds one entry per configured term, counted by re-reading
	// that term's own file. Terms whose filenames collide report the same
	// file, so these counts can sum to more than Merged.
	TermCounts []TermCount

	// Merged is the total across all per-term files before deduplication.
	Merged int

	// Unique is the number of datasets in the combined report.
	Unique int

	// DuplicatesRemoved counts later occurrences of already-seen accessions.
	DuplicatesRemoved int

	// MissingAccession counts records dropped for having no accession.
	MissingAccession int
}

// Run executes the whole pipeline sequentially: one term at a time, one page
// at a time, one merge file at a time. Terms is an explicit argument rather
// than package state so callers (and tests) control the variant list.
func Run(ctx context.Context, client *pride.Client, cfg types.HarvestConfig, terms []string, w io.Writer) (Result, error) {
	if len(terms) == 0 {
		return Result{}, fmt.Errorf("no search terms configured")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	// Merge incrementally while fetching: each term's list is appended to
	// the running total as soon as it is written out, so dedup sees every
	// term's results even where the lossy filenames collide on disk.
	var merged []types.Dataset
	for _, term := range terms {
		fmt.Fprintf(w, "searching %q\n", term)
		datasets := client.FetchTerm(ctx, term, cfg, w)
		if err := WriteTermFile(cfg.OutputDir, term, datasets); err != nil {
			return Result{}, fmt.Errorf("writing results for %q: %w", term, err)
		}
		merged = append(merged, datasets...)
	}

	return report(cfg, terms, merged, w)
}

// Rebuild regenerates the combined report, summary, and manifest from the
// per-term files already present in cfg.OutputDir, without re-querying the
// API. Unlike a live run, the merge here sees only what survived on disk.
func Rebuild(cfg types.HarvestConfig, terms []string, w io.Writer) (Result, error) {
	merged := Merge(cfg.OutputDir, w)
	return report(cfg, terms, merged, w)
}

// report deduplicates the merged list and writes the three report artifacts.
func report(cfg types.HarvestConfig, terms []string, merged []types.Dataset, w io.Writer) (Result, error) {
	unique, removed, missing := Deduplicate(merged)

	result := Result{
		Merged:            len(merged),
		Unique:            len(unique),
		DuplicatesRemoved: removed,
		MissingAccession:  missing,
	}

	now := time.Now()
	timestamp := now.Format(timestampFmt)

	combined := types.CombinedResult{
		Datasets:            unique,
		TotalUniqueDatasets: len(unique),
		SearchTimestamp:     timestamp,
	}
	if err := writeJSON(filepath.Join(cfg.OutputDir, combinedFile), combined); err != nil {
		return result, fmt.Errorf("writing combined results: %w", err)
	}

	result.TermCounts = CountTerms(cfg.OutputDir, terms)

	if err := WriteSummary(cfg.OutputDir, timestamp, result); err != nil {
		return result, fmt.Errorf("writing summary: %w", err)
	}
	if err := WriteManifest(cfg.OutputDir, cfg, terms, result, now); err != nil {
		return result, fmt.Errorf("writing manifest: %w", err)
	}

	fmt.Fprintf(w, "\n%d datasets merged, %d unique (%d duplicates removed)\n",
		result.Merged, result.Unique, result.DuplicatesRemoved)
	if missing > 0 {
		fmt.Fprintf(w, "warning: %d record(s) without an accession dropped\n", missing)
	}
	return result, nil
}

// Merge concatenates the dataset lists of every per-term file in dir, in
// sorted file order. Files are read one at a time and appended to the running
// list, so only one partial result is resident alongside the accumulator.
// An unreadable or malformed file contributes nothing and is skipped.
func Merge(dir string, w io.Writer) []types.Dataset {
	var all []types.Dataset
	for _, path := range termFiles(dir) {
		datasets, err := ReadTermFile(path)
		if err != nil {
			continue
		}
		all = append(all, datasets...)
		fmt.Fprintf(w, "merged %s (%d datasets)\n", filepath.Base(path), len(datasets))
	}
	return all
}

// CountTerms re-reads each term's own output file and counts its datasets.
// The counts are independent of deduplication, and terms whose normalized
// filenames collide count the same (last-written) file.
func CountTerms(dir string, terms []string) []TermCount {
	counts := make([]TermCount, 0, len(terms))
	for _, term := range terms {
		count := 0
		if datasets, err := ReadTermFile(TermFilePath(dir, term)); err == nil {
			count = len(datasets)
		}
		counts = append(counts, TermCount{Term: term, Count: count})
	}
	return counts
}
