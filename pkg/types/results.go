// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TermResult is the on-disk shape of one search term's output file
// (search_<term>.json): the concatenation of every page fetched for that
// term, in page order.
type TermResult struct {
	Datasets []Dataset `json:"datasets"`
}

// CombinedResult is the on-disk shape of the final deduplicated report
// (combined_unique_results.json). TotalUniqueDatasets always equals
// len(Datasets); SearchTimestamp is formatted as "YYYY-MM-DD HH:MM:SS".
type CombinedResult struct {
	Datasets            []Dataset `json:"datasets"`
	TotalUniqueDatasets int       `json:"total_unique_datasets"`
	SearchTimestamp     string    `json:"search_timestamp"`
}
