// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter narrows harvested datasets to the strict study criteria:
// immunopeptidomics work, on cancer samples, measured on a timsTOF
// instrument. Matching is plain case-insensitive substring search over the
// dataset's descriptive fields; the search terms cast a wide net upstream
// and this stage does the narrowing.
package filter

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pride-harvest/pkg/types"
)

// textFields are the dataset fields scanned for keyword matches.
var textFields = []string{"title", "projectDescription", "keywords", "projectTags"}

// immunopeptidomicsTerms match datasets about MHC/HLA peptide presentation.
var immunopeptidomicsTerms = []string{
	"immunopeptidomics", "immunopeptidome", "immunopeptides", "immunopeptide",
	"mhc", "hla", "antigen presentation", "peptide presentation",
	"major histocompatibility",
}

// cancerTerms match datasets about malignancies of any kind.
var cancerTerms = []string{
	"cancer", "tumor", "tumour", "carcinoma", "melanoma",
	"leukemia", "lymphoma", "oncology", "neoplasm", "malignant",
	"metastasis", "adenocarcinoma", "sarcoma", "glioma",
}

// instrumentTerms match the timsTOF family in instrument annotations.
var instrumentTerms = []string{"timstof", "tims-tof"}

// MatchesStrict reports whether d satisfies all three criteria.
func MatchesStrict(d types.Dataset) bool {
	return matchesAnyField(d, immunopeptidomicsTerms) &&
		matchesAnyField(d, cancerTerms) &&
		matchesInstrument(d)
}

// Apply returns the datasets passing MatchesStrict, preserving input order,
// and prints one line per match.
func Apply(datasets []types.Dataset, w io.Writer) []types.Dataset {
	var matched []types.Dataset
	for _, d := range datasets {
		if !MatchesStrict(d) {
			continue
		}
		matched = append(matched, d)
		fmt.Fprintf(w, "match: %s - %s\n", d.Accession(), truncate(d.Title(), 80))
	}
	fmt.Fprintf(w, "\n%d of %d datasets match all criteria\n", len(matched), len(datasets))
	return matched
}

// matchesAnyField reports whether any text field contains any of the terms.
func matchesAnyField(d types.Dataset, terms []string) bool {
	for _, field := range textFields {
		text := strings.ToLower(d.Text(field))
		if text == "" {
			continue
		}
		for _, term := range terms {
			if strings.Contains(text, term) {
				return true
			}
		}
	}
	return false
}

// matchesInstrument checks the instruments annotation, falling back to the
// title and description since some submitters only name the instrument there.
func matchesInstrument(d types.Dataset) bool {
	for _, name := range d.Strings("instruments") {
		if containsAny(strings.ToLower(name), instrumentTerms) {
			return true
		}
	}
	for _, field := range []string{"title", "projectDescription"} {
		if containsAny(strings.ToLower(d.Text(field)), instrumentTerms) {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
