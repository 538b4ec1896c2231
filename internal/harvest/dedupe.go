// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import "github.com/pdiddy/pride-harvest/pkg/types"

// Deduplicate removes datasets sharing an accession, keeping the first
// occurrence in input order and discarding later ones unchanged. Records
// with no accession at all fail the one schema check the pipeline makes and
// are dropped; their count is returned separately so the caller can surface
// it. Running Deduplicate on already-deduplicated input returns it as-is.
func Deduplicate(datasets []types.Dataset) (unique []types.Dataset, removed, missing int) {
	seen := make(map[string]bool, len(datasets))
	for _, d := range datasets {
		acc := d.Accession()
		if acc == "" {
			missing++
			continue
		}
		if seen[acc] {
			removed++
			continue
		}
		seen[acc] = true
		unique = append(unique, d)
	}
	return unique, removed, missing
}
