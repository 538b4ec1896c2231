// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export flattens dataset records into tab-separated rows for
// spreadsheet triage.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pride-harvest/pkg/types"
)

// Columns is the TSV header, in output order.
var Columns = []string{
	"accession",
	"title",
	"projectDescription",
	"keywords",
	"instruments",
	"submissionDate",
	"publicationDate",
	"doi",
	"submitters",
}

// WriteTSV writes a header row followed by one row per dataset. List fields
// are joined with "; "; embedded tabs and newlines are flattened to spaces so
// every record stays on one line.
func WriteTSV(w io.Writer, datasets []types.Dataset) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, d := range datasets {
		row := make([]string, len(Columns))
		for i, col := range Columns {
			row[i] = columnValue(d, col)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", d.Accession(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// columnValue extracts and flattens one column from a dataset.
func columnValue(d types.Dataset, col string) string {
	var v string
	switch col {
	case "keywords", "instruments":
		v = strings.Join(d.Strings(col), "; ")
	case "submitters":
		v = strings.Join(d.SubmitterNames(), "; ")
	default:
		v = d.String(col)
	}
	return flatten(v)
}

// flatten replaces tabs and line breaks with single spaces.
func flatten(s string) string {
	r := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	return strings.TrimSpace(r.Replace(s))
}
