// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists harvested datasets in a SQLite database with
// full-text search over titles and keywords, so past harvests can be queried
// without re-reading the JSON artifacts.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pride-harvest/pkg/types"
)

// Store manages the dataset catalog database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the catalog database at cfg.DBPath, creating parent
// directories and the schema as needed.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			accession TEXT PRIMARY KEY,
			title TEXT,
			keywords TEXT,
			raw TEXT NOT NULL,
			harvested_at TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='datasets_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE datasets_fts USING fts5(title, keywords, content=datasets, content_rowid=rowid)`,
			`CREATE TRIGGER datasets_ai AFTER INSERT ON datasets BEGIN
				INSERT INTO datasets_fts(rowid, title, keywords) VALUES (new.rowid, new.title, new.keywords);
			END`,
			`CREATE TRIGGER datasets_ad AFTER DELETE ON datasets BEGIN
				INSERT INTO datasets_fts(datasets_fts, rowid, title, keywords) VALUES('delete', old.rowid, old.title, old.keywords);
			END`,
			`CREATE TRIGGER datasets_au AFTER UPDATE ON datasets BEGIN
				INSERT INTO datasets_fts(datasets_fts, rowid, title, keywords) VALUES('delete', old.rowid, old.title, old.keywords);
				INSERT INTO datasets_fts(rowid, title, keywords) VALUES (new.rowid, new.title, new.keywords);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// LoadSummary holds counts from one catalog load.
type LoadSummary struct {
	Stored  int
	Updated int
	Skipped int
}

// Total returns the number of datasets processed.
func (l LoadSummary) Total() int {
	return l.Stored + l.Updated + l.Skipped
}

// Load ingests a combined result into the catalog. Known accessions are
// updated in place; records without an accession are skipped.
func (s *Store) Load(ctx context.Context, combined types.CombinedResult, w io.Writer) (LoadSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO datasets (accession, title, keywords, raw, harvested_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(accession) DO UPDATE SET
			title=excluded.title, keywords=excluded.keywords,
			raw=excluded.raw, harvested_at=excluded.harvested_at`)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary LoadSummary
	for _, d := range combined.Datasets {
		acc := d.Accession()
		if acc == "" {
			summary.Skipped++
			continue
		}

		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM datasets WHERE accession = ?`, acc,
		).Scan(&exists); err != nil {
			return summary, fmt.Errorf("checking %s: %w", acc, err)
		}

		raw, err := json.Marshal(d)
		if err != nil {
			return summary, fmt.Errorf("marshaling %s: %w", acc, err)
		}

		keywords := strings.Join(d.Strings("keywords"), "; ")

		if _, err := stmt.ExecContext(ctx,
			acc, d.Title(), keywords, string(raw), combined.SearchTimestamp,
		); err != nil {
			return summary, fmt.Errorf("storing %s: %w", acc, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Stored++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "catalog: %d stored, %d updated, %d skipped\n",
		summary.Stored, summary.Updated, summary.Skipped)
	return summary, nil
}

// Entry is one catalog row returned by Search.
type Entry struct {
	Accession   string `json:"accession"`
	Title       string `json:"title"`
	Keywords    string `json:"keywords,omitempty"`
	HarvestedAt string `json:"harvested_at,omitempty"`
}

// Search runs an FTS5 query over titles and keywords, ranked by relevance.
// A limit of zero uses the store default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if query == "" {
		return nil, fmt.Errorf("query required")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.accession, d.title, d.keywords, d.harvested_at
		 FROM datasets_fts
		 JOIN datasets d ON d.rowid = datasets_fts.rowid
		 WHERE datasets_fts MATCH ?
		 ORDER BY datasets_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var keywords, harvestedAt sql.NullString
		if err := rows.Scan(&e.Accession, &e.Title, &keywords, &harvestedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Keywords = keywords.String
		e.HarvestedAt = harvestedAt.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of cataloged datasets.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM datasets`).Scan(&n)
	return n, err
}
