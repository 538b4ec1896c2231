package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/pride-harvest/internal/pride"
	"github.com/pdiddy/pride-harvest/pkg/types"
)

func testCfg(baseURL, dir string) types.HarvestConfig {
	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		BaseURL:    baseURL,
		OutputDir:  dir,
		PageSize:   200,
		ResultType: "full",
		Species:    "Homo sapiens",
	}
}

func ds(accession, title string) types.Dataset {
	return types.Dataset{"accession": accession, "title": title}
}

// keywordServer serves first-page results keyed by the exact keywords value;
// every response is a short page so pagination stops after one request.
func keywordServer(t *testing.T, byKeyword map[string][]types.Dataset) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kw := r.URL.Query().Get("keywords")
		json.NewEncoder(w).Encode(map[string]any{"datasets": byKeyword[kw]})
	}))
}

// --- Deduplicate ---

func TestDeduplicateKeepsFirstSeen(t *testing.T) {
	input := []types.Dataset{
		ds("PXD001", "first"),
		ds("PXD002", "first occurrence"),
		ds("PXD002", "second occurrence"),
		ds("PXD003", "third"),
	}

	unique, removed, missing := Deduplicate(input)
	if removed != 1 || missing != 0 {
		t.Errorf("removed = %d, missing = %d, want 1, 0", removed, missing)
	}
	if len(unique) != 3 {
		t.Fatalf("len(unique) = %d, want 3", len(unique))
	}
	if unique[1].Title() != "first occurrence" {
		t.Errorf("kept record title = %q, want the first occurrence", unique[1].Title())
	}
}

func TestDeduplicateDropsMissingAccession(t *testing.T) {
	input := []types.Dataset{
		ds("PXD001", "a"),
		{"title": "no accession"},
	}

	unique, removed, missing := Deduplicate(input)
	if len(unique) != 1 || removed != 0 || missing != 1 {
		t.Errorf("got %d unique, %d removed, %d missing; want 1, 0, 1", len(unique), removed, missing)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	input := []types.Dataset{
		ds("PXD001", "a"),
		ds("PXD002", "b"),
		ds("PXD002", "dup"),
	}

	once, _, _ := Deduplicate(input)
	twice, removed, missing := Deduplicate(once)

	if removed != 0 || missing != 0 {
		t.Errorf("second pass removed = %d, missing = %d, want 0, 0", removed, missing)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed the list: %v vs %v", once, twice)
	}
}

// --- NormalizeTerm ---

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cancer", "cancer"},
		{"Cancer", "cancer"},
		{"MHC", "mhc"},
		{"antigen presentation", "antigen_presentation"},
		{"antigen%20presentation", "antigen_presentation"},
		{"Antigen presentation", "antigen_presentation"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTerm(tt.input); got != tt.want {
				t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// --- term files and merge ---

func TestWriteReadTermFile(t *testing.T) {
	dir := t.TempDir()
	datasets := []types.Dataset{ds("PXD001", "a"), ds("PXD002", "b")}

	if err := WriteTermFile(dir, "Cancer", datasets); err != nil {
		t.Fatalf("WriteTermFile: %v", err)
	}

	path := filepath.Join(dir, "search_cancer.json")
	got, err := ReadTermFile(path)
	if err != nil {
		t.Fatalf("ReadTermFile: %v", err)
	}
	if len(got) != 2 || got[0].Accession() != "PXD001" {
		t.Errorf("round trip mismatch: %v", got)
	}
}

func TestMergeSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteTermFile(dir, "cancer", []types.Dataset{ds("PXD001", "a")}); err != nil {
		t.Fatal(err)
	}
	// A malformed per-term file contributes nothing.
	if err := os.WriteFile(filepath.Join(dir, "search_tumor.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Unrelated files are not merge input.
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`{"datasets":[{"accession":"PXD999"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	merged := Merge(dir, &buf)
	if len(merged) != 1 || merged[0].Accession() != "PXD001" {
		t.Errorf("merged = %v, want only PXD001", merged)
	}
}

func TestCountTermsCollidingFilenames(t *testing.T) {
	dir := t.TempDir()
	// Both variants normalize to search_cancer.json; the second write wins.
	if err := WriteTermFile(dir, "cancer", []types.Dataset{ds("PXD001", "a"), ds("PXD002", "b")}); err != nil {
		t.Fatal(err)
	}
	if err := WriteTermFile(dir, "Cancer", []types.Dataset{ds("PXD002", "b2"), ds("PXD003", "c")}); err != nil {
		t.Fatal(err)
	}

	counts := CountTerms(dir, []string{"cancer", "Cancer", "tumor"})
	want := []TermCount{
		{Term: "cancer", Count: 2},
		{Term: "Cancer", Count: 2},
		{Term: "tumor", Count: 0},
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("CountTerms = %v, want %v", counts, want)
	}
}

// --- Run ---

func TestRunEndToEnd(t *testing.T) {
	byKeyword := map[string][]types.Dataset{
		"cancer": {ds("PXD001", "study one"), ds("PXD002", "study two")},
		"Cancer": {ds("PXD002", "study two again"), ds("PXD003", "study three")},
	}
	ts := keywordServer(t, byKeyword)
	defer ts.Close()

	dir := t.TempDir()
	cfg := testCfg(ts.URL, dir)
	client := &pride.Client{HTTP: ts.Client()}
	terms := []string{"cancer", "Cancer"}

	var buf bytes.Buffer
	result, err := Run(context.Background(), client, cfg, terms, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Merged != 4 {
		t.Errorf("Merged = %d, want 4", result.Merged)
	}
	if result.Unique != 3 || result.DuplicatesRemoved != 1 {
		t.Errorf("Unique = %d, DuplicatesRemoved = %d, want 3, 1", result.Unique, result.DuplicatesRemoved)
	}

	combined, err := ReadCombined(filepath.Join(dir, "combined_unique_results.json"))
	if err != nil {
		t.Fatalf("ReadCombined: %v", err)
	}
	if combined.TotalUniqueDatasets != 3 || len(combined.Datasets) != 3 {
		t.Fatalf("combined has %d/%d datasets, want 3/3", len(combined.Datasets), combined.TotalUniqueDatasets)
	}
	wantOrder := []string{"PXD001", "PXD002", "PXD003"}
	for i, acc := range wantOrder {
		if combined.Datasets[i].Accession() != acc {
			t.Errorf("combined[%d] = %s, want %s", i, combined.Datasets[i].Accession(), acc)
		}
	}
	// First-seen record wins: PXD002 keeps the title from the first term.
	if combined.Datasets[1].Title() != "study two" {
		t.Errorf("kept PXD002 title = %q, want first-seen record", combined.Datasets[1].Title())
	}
	if _, err := time.Parse("2006-01-02 15:04:05", combined.SearchTimestamp); err != nil {
		t.Errorf("SearchTimestamp %q not in YYYY-MM-DD HH:MM:SS format", combined.SearchTimestamp)
	}

	// The colliding filename holds the second term's results only.
	onDisk, err := ReadTermFile(filepath.Join(dir, "search_cancer.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(onDisk) != 2 || onDisk[0].Accession() != "PXD002" {
		t.Errorf("search_cancer.json = %v, want the overwriting term's datasets", onDisk)
	}

	// Summary: one count line per configured term, even when files collide.
	summary, err := os.ReadFile(filepath.Join(dir, "search_summary.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(summary)
	if got := strings.Count(text, ": 2 datasets"); got != 2 {
		t.Errorf("summary has %d per-term count lines, want 2:\n%s", got, text)
	}
	if !strings.Contains(text, "Total unique datasets: 3") {
		t.Errorf("summary missing unique total:\n%s", text)
	}
	if !strings.Contains(text, "combined_unique_results.json") || !strings.Contains(text, "search_summary.txt") {
		t.Errorf("summary missing file manifest:\n%s", text)
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Summary.Unique != 3 || len(m.Terms) != 2 {
		t.Errorf("manifest summary = %+v, terms = %v", m.Summary, m.Terms)
	}
}

func TestRunNoTerms(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(context.Background(), &pride.Client{HTTP: http.DefaultClient}, testCfg("http://127.0.0.1:0", t.TempDir()), nil, &buf)
	if err == nil || !strings.Contains(err.Error(), "no search terms") {
		t.Errorf("expected no-terms error, got: %v", err)
	}
}

func TestRunFailedTermYieldsEmptyFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := testCfg(ts.URL, dir)
	client := &pride.Client{HTTP: ts.Client()}

	var buf bytes.Buffer
	result, err := Run(context.Background(), client, cfg, []string{"cancer"}, &buf)
	if err != nil {
		t.Fatalf("Run should degrade, not fail: %v", err)
	}
	if result.Unique != 0 {
		t.Errorf("Unique = %d, want 0", result.Unique)
	}

	datasets, err := ReadTermFile(filepath.Join(dir, "search_cancer.json"))
	if err != nil {
		t.Fatalf("per-term file should still be written: %v", err)
	}
	if len(datasets) != 0 {
		t.Errorf("len(datasets) = %d, want 0", len(datasets))
	}
}

// --- Rebuild ---

func TestRebuildFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := WriteTermFile(dir, "cancer", []types.Dataset{ds("PXD001", "a"), ds("PXD002", "b")}); err != nil {
		t.Fatal(err)
	}
	if err := WriteTermFile(dir, "tumor", []types.Dataset{ds("PXD002", "b"), ds("PXD003", "c")}); err != nil {
		t.Fatal(err)
	}

	cfg := testCfg("unused", dir)
	var buf bytes.Buffer
	result, err := Rebuild(cfg, []string{"cancer", "tumor"}, &buf)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Merged != 4 || result.Unique != 3 {
		t.Errorf("Merged = %d, Unique = %d, want 4, 3", result.Merged, result.Unique)
	}
	if _, err := os.Stat(filepath.Join(dir, "combined_unique_results.json")); err != nil {
		t.Errorf("combined file not written: %v", err)
	}
}
