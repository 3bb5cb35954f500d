// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists finished paper results in a local SQLite
// database so repeated runs can reuse summaries instead of calling the
// model again. Entries are keyed by paper, summary type, model, and
// content source; the same paper summarized two ways is two entries.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-scout/pkg/types"
)

const dbFile = "library.db"

// Store manages the results library SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Entry is one stored result together with its summary provenance.
type Entry struct {
	types.PaperResult
	SummaryType types.SummaryType `json:"summary_type" yaml:"summary_type"`
	Model       string            `json:"model" yaml:"model"`
	SavedAt     time.Time         `json:"saved_at" yaml:"saved_at"`
}

// Open opens or creates the library database at cfg.Dir/library.db and
// creates the schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("library directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id TEXT NOT NULL,
			summary_type TEXT NOT NULL,
			model TEXT NOT NULL,
			content_source TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			categories TEXT,
			published TEXT,
			abstract TEXT,
			pdf_url TEXT,
			score REAL,
			matched_terms TEXT,
			summary TEXT,
			saved_at TEXT NOT NULL,
			UNIQUE(paper_id, summary_type, model, content_source)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_paper_id ON entries(paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_saved_at ON entries(saved_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE entries_fts USING fts5(title, abstract, summary, content=entries, content_rowid=rowid)`,
			`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
				INSERT INTO entries_fts(rowid, title, abstract, summary) VALUES (new.rowid, new.title, new.abstract, new.summary);
			END`,
			`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, abstract, summary) VALUES('delete', old.rowid, old.title, old.abstract, old.summary);
			END`,
			`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, abstract, summary) VALUES('delete', old.rowid, old.title, old.abstract, old.summary);
				INSERT INTO entries_fts(rowid, title, abstract, summary) VALUES (new.rowid, new.title, new.abstract, new.summary);
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

// Save upserts one result. The full text itself is not persisted, only
// which source the summary was produced from.
func (s *Store) Save(ctx context.Context, r types.PaperResult, st types.SummaryType, model string) error {
	authorsJSON, _ := json.Marshal(r.Authors)
	categoriesJSON, _ := json.Marshal(r.Categories)
	termsJSON, _ := json.Marshal(r.MatchedTerms)

	published := ""
	if !r.Published.IsZero() {
		published = r.Published.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (paper_id, summary_type, model, content_source,
			title, authors, categories, published, abstract, pdf_url,
			score, matched_terms, summary, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(paper_id, summary_type, model, content_source) DO UPDATE SET
			title=excluded.title, authors=excluded.authors,
			categories=excluded.categories, published=excluded.published,
			abstract=excluded.abstract, pdf_url=excluded.pdf_url,
			score=excluded.score, matched_terms=excluded.matched_terms,
			summary=excluded.summary, saved_at=excluded.saved_at`,
		r.ID, string(st), model, string(r.ContentSource),
		r.Title, string(authorsJSON), string(categoriesJSON), published,
		r.Abstract, r.PDFURL, r.Score, string(termsJSON), r.Summary,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving entry %s: %w", r.ID, err)
	}
	return nil
}

// Lookup returns the stored summary for the exact (paper, summary type,
// model, content source) key. The second return is false on a miss.
func (s *Store) Lookup(ctx context.Context, id string, st types.SummaryType, model string, src types.ContentSource) (string, bool, error) {
	var summary string
	err := s.db.QueryRowContext(ctx,
		`SELECT summary FROM entries
		 WHERE paper_id = ? AND summary_type = ? AND model = ? AND content_source = ?`,
		id, string(st), model, string(src),
	).Scan(&summary)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up entry %s: %w", id, err)
	}
	if summary == "" {
		return "", false, nil
	}
	return summary, true, nil
}

// Query runs a full-text search over stored titles, abstracts, and
// summaries, ranked by relevance. Zero limit uses the store default.
func (s *Store) Query(ctx context.Context, query string, limit int) ([]Entry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty library query")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		entrySelect(`FROM entries_fts
			JOIN entries e ON e.rowid = entries_fts.rowid
			WHERE entries_fts MATCH ?
			ORDER BY entries_fts.rank LIMIT ?`),
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Recent returns the most recently saved entries, newest first. Zero
// limit uses the store default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		entrySelect(`FROM entries e ORDER BY e.saved_at DESC LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing library: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func entrySelect(tail string) string {
	return `SELECT e.paper_id, e.summary_type, e.model, e.content_source,
		e.title, e.authors, e.categories, e.published, e.abstract, e.pdf_url,
		e.score, e.matched_terms, e.summary, e.saved_at ` + tail
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e              Entry
			summaryType    string
			contentSource  string
			authorsJSON    sql.NullString
			categoriesJSON sql.NullString
			termsJSON      sql.NullString
			published      sql.NullString
			savedAt        string
		)

		if err := rows.Scan(
			&e.ID, &summaryType, &e.Model, &contentSource,
			&e.Title, &authorsJSON, &categoriesJSON, &published,
			&e.Abstract, &e.PDFURL, &e.Score, &termsJSON, &e.Summary, &savedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		e.SummaryType = types.SummaryType(summaryType)
		e.ContentSource = types.ContentSource(contentSource)

		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &e.Authors)
		}
		if categoriesJSON.Valid {
			json.Unmarshal([]byte(categoriesJSON.String), &e.Categories)
		}
		if termsJSON.Valid {
			json.Unmarshal([]byte(termsJSON.String), &e.MatchedTerms)
		}
		if published.Valid && published.String != "" {
			if t, err := time.Parse(time.RFC3339, published.String); err == nil {
				e.Published = t
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
			e.SavedAt = t
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}
