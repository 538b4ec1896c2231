// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pride-harvest pipeline.
package types

import "strings"

// Dataset is one dataset record as returned by the PRIDE Archive search API.
// It is kept as a generic JSON object so that every field the API returns is
// carried through to the output files unmodified; the pipeline itself only
// interprets the accession and a handful of metadata fields.
type Dataset map[string]any

// Accession returns the dataset's unique accession identifier (e.g. "PXD001234"),
// or "" when the record has none.
func (d Dataset) Accession() string {
	return d.String("accession")
}

// Title returns the dataset title, or "" when absent.
func (d Dataset) Title() string {
	return d.String("title")
}

// String returns the top-level field key as a string. Non-string values
// (including absent fields) return "".
func (d Dataset) String(key string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return ""
}

// Strings returns the top-level field key flattened to a list of strings.
// List entries that are strings are kept as-is; object entries are reduced
// to their "name" field, falling back to "accession" (the shape PRIDE uses
// for instruments and similar CV terms). A plain string value is returned
// as a one-element list.
func (d Dataset) Strings(key string) []string {
	switch v := d[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			switch it := item.(type) {
			case string:
				out = append(out, it)
			case map[string]any:
				if name, ok := it["name"].(string); ok && name != "" {
					out = append(out, name)
				} else if acc, ok := it["accession"].(string); ok && acc != "" {
					out = append(out, acc)
				}
			}
		}
		return out
	default:
		return nil
	}
}

// Text returns the field as a single searchable string: string fields
// directly, list fields joined with spaces. Used for keyword scanning.
func (d Dataset) Text(key string) string {
	if s := d.String(key); s != "" {
		return s
	}
	return strings.Join(d.Strings(key), " ")
}

// SubmitterNames returns the names of the dataset submitters. PRIDE returns
// submitters as objects with firstName/lastName; some records use a single
// "name" field instead.
func (d Dataset) SubmitterNames() []string {
	items, ok := d["submitters"].([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			if s, ok := item.(string); ok && s != "" {
				names = append(names, s)
			}
			continue
		}
		first, _ := m["firstName"].(string)
		last, _ := m["lastName"].(string)
		full := strings.TrimSpace(first + " " + last)
		if full == "" {
			full, _ = m["name"].(string)
		}
		if full != "" {
			names = append(names, full)
		}
	}
	return names
}
