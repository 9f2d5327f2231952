// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists normalized study metadata in a local SQLite
// index with full-text search over titles and descriptions plus facet
// filters over the classified fields.
//
// The index uses SQLite's FTS5 module, which go-sqlite3 only compiles
// under the sqlite_fts5 build tag. Build and test through mage, or pass
// -tags sqlite_fts5 to the go commands directly.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/study-catalog/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at catalogDir/catalog.db,
// creating the schema when absent.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS studies (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			accession TEXT NOT NULL UNIQUE,
			title TEXT,
			description TEXT,
			collection TEXT,
			case_study TEXT,
			regulatory_question TEXT,
			flow_step TEXT,
			organism TEXT,
			release_date TEXT,
			url TEXT,
			authors TEXT,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_studies_collection ON studies(collection)`,
		`CREATE INDEX IF NOT EXISTS idx_studies_case_study ON studies(case_study)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='studies_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE studies_fts USING fts5(title, description, authors, content=studies, content_rowid=rowid)`,
			`CREATE TRIGGER studies_ai AFTER INSERT ON studies BEGIN
				INSERT INTO studies_fts(rowid, title, description, authors)
				VALUES (new.rowid, new.title, new.description, new.authors);
			END`,
			`CREATE TRIGGER studies_ad AFTER DELETE ON studies BEGIN
				INSERT INTO studies_fts(studies_fts, rowid, title, description, authors)
				VALUES('delete', old.rowid, old.title, old.description, old.authors);
			END`,
			`CREATE TRIGGER studies_au AFTER UPDATE ON studies BEGIN
				INSERT INTO studies_fts(studies_fts, rowid, title, description, authors)
				VALUES('delete', old.rowid, old.title, old.description, old.authors);
				INSERT INTO studies_fts(rowid, title, description, authors)
				VALUES (new.rowid, new.title, new.description, new.authors);
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

// IngestSummary holds counts from a catalog ingestion run.
type IngestSummary struct {
	Indexed int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Skipped + s.Failed
}

// Ingest upserts metadata records into the index. Error-carrying records
// are skipped; an upsert failure counts the record as failed without
// aborting the run.
func (s *Store) Ingest(ctx context.Context, records []types.StudyMetadata, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, md := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if md.HasError() || md.Accession == "" || md.Accession == types.NotAvailable {
			fmt.Fprintf(w, "skipped %s\n", md.Accession)
			summary.Skipped++
			continue
		}

		if err := s.upsert(ctx, md); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", md.Accession, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "indexed %s\n", md.Accession)
		summary.Indexed++
	}

	fmt.Fprintf(w, "\nindexed: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) upsert(ctx context.Context, md types.StudyMetadata) error {
	authorsJSON, _ := json.Marshal(md.Authors)
	metadataJSON, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO studies (accession, title, description, collection,
			case_study, regulatory_question, flow_step, organism,
			release_date, url, authors, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(accession) DO UPDATE SET
			title=excluded.title, description=excluded.description,
			collection=excluded.collection, case_study=excluded.case_study,
			regulatory_question=excluded.regulatory_question,
			flow_step=excluded.flow_step, organism=excluded.organism,
			release_date=excluded.release_date, url=excluded.url,
			authors=excluded.authors, metadata=excluded.metadata`,
		md.Accession, naToEmpty(md.Title), naToEmpty(md.Description), md.Collection,
		md.CaseStudy, md.RegulatoryQuestion, md.FlowStep,
		md.BiologicalContext["organism"],
		naToEmpty(md.ReleaseDate), md.URL, string(authorsJSON), string(metadataJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting study: %w", err)
	}
	return nil
}

// naToEmpty strips the extractor's placeholder before indexing so it
// never matches a full-text query.
func naToEmpty(s string) string {
	if s == types.NotAvailable {
		return ""
	}
	return s
}
