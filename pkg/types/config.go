package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pride-harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HarvestConfig holds settings for the harvest stage: the search endpoint,
// its fixed query parameters, and the output location.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the PRIDE Archive project search endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// OutputDir is the directory for per-term files, the combined report,
	// and the summary.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// PageSize is the number of datasets requested per page (default 200).
	// A page shorter than this signals the last page.
	PageSize int `json:"page_size" yaml:"page_size"`

	// ResultType is the resultType query parameter (default "full").
	ResultType string `json:"result_type" yaml:"result_type"`

	// Species is the species filter (default "Homo sapiens").
	Species string `json:"species" yaml:"species"`

	// Terms is the list of search keywords. Case and synonym variants of
	// the same concept are listed separately to maximize recall.
	Terms []string `json:"terms" yaml:"terms"`
}

// CatalogConfig holds settings for the SQLite dataset catalog.
type CatalogConfig struct {
	// DBPath is the catalog database file (default "pride_results/catalog.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// DefaultTerms is the fixed keyword list used when the configuration does
// not supply one: case variants of the immunopeptidomics and cancer
// vocabulary the downstream filter targets.
var DefaultTerms = []string{
	"immunopeptidomics", "Immunopeptidomics",
	"immunopeptidome", "Immunopeptidome",
	"cancer", "Cancer",
	"tumor", "Tumor",
	"tumour", "Tumour",
	"oncology", "Oncology",
	"malignant", "Malignant",
	"neoplasm", "Neoplasm",
	"MHC", "mhc",
	"HLA", "hla",
	"antigen presentation", "Antigen presentation",
}
