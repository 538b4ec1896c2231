// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteSummary writes the human-readable run report (search_summary.txt):
// generation time, the unique total, per-term counts, and a manifest of the
// produced files with one-line descriptions.
func WriteSummary(dir, timestamp string, result Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "PRIDE Archive search summary\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", timestamp)
	fmt.Fprintf(&b, "Total unique datasets: %d\n\n", result.Unique)

	fmt.Fprintf(&b, "Datasets per search term:\n")
	for _, tc := range result.TermCounts {
		fmt.Fprintf(&b, "  %s: %d datasets\n", tc.Term, tc.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Files written:\n")
	for _, path := range termFiles(dir) {
		fmt.Fprintf(&b, "  %s - raw results for one search term\n", filepath.Base(path))
	}
	fmt.Fprintf(&b, "  %s - combined results deduplicated by accession\n", combinedFile)
	fmt.Fprintf(&b, "  %s - this summary\n", summaryFile)
	fmt.Fprintf(&b, "  %s - run parameters and counts\n", manifestFile)

	return os.WriteFile(filepath.Join(dir, summaryFile), []byte(b.String()), 0o644)
}
