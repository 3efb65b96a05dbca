// Package store persists ingested file records and a processing history in
// SQLite. The store is bookkeeping around the pipelines: extraction and
// question answering work without it, but recording runs enables the
// history and stats commands.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the claimlens SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			size INTEGER NOT NULL,
			document_type TEXT NOT NULL,
			passages INTEGER NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS processing_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			query TEXT,
			confidence TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_case_id ON processing_history(case_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// FileRecord describes one ingested document.
type FileRecord struct {
	ID           int64
	Name         string
	Size         int64
	DocumentType string
	Passages     int
	IngestedAt   time.Time
}

// HistoryEntry records one extraction or question-answering run.
type HistoryEntry struct {
	ID         int64
	CaseID     string
	Operation  string // "extract" or "ask"
	Query      string
	Confidence string
	CreatedAt  time.Time
}

// Stats summarizes the store contents.
type Stats struct {
	Files        int
	Passages     int
	Operations   int
	ByConfidence map[string]int
}

// RecordFile upserts a file record, keyed by name. Re-ingesting a document
// replaces its previous record.
func (s *Store) RecordFile(ctx context.Context, rec FileRecord) error {
	ingestedAt := rec.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (name, size, document_type, passages, ingested_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			size=excluded.size, document_type=excluded.document_type,
			passages=excluded.passages, ingested_at=excluded.ingested_at`,
		rec.Name, rec.Size, rec.DocumentType, rec.Passages,
		ingestedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording file %s: %w", rec.Name, err)
	}
	return nil
}

// ListFiles returns all file records ordered by name.
func (s *Store) ListFiles(ctx context.Context) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, size, document_type, passages, ingested_at
		 FROM files ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var rec FileRecord
		var ingestedAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Size, &rec.DocumentType,
			&rec.Passages, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning file record: %w", err)
		}
		rec.IngestedAt, _ = time.Parse(time.RFC3339, ingestedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecordHistory appends a processing history entry and returns its id.
func (s *Store) RecordHistory(ctx context.Context, entry HistoryEntry) (int64, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO processing_history (case_id, operation, query, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.CaseID, entry.Operation, entry.Query, entry.Confidence,
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("recording history: %w", err)
	}
	return res.LastInsertId()
}

// History returns the most recent entries, newest first. A non-positive
// limit returns everything.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := `SELECT id, case_id, operation, query, confidence, created_at
	          FROM processing_history ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Operation, &e.Query,
			&e.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CaseHistory returns all entries for one case, newest first.
func (s *Store) CaseHistory(ctx context.Context, caseID string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, operation, query, confidence, created_at
		 FROM processing_history WHERE case_id = ? ORDER BY id DESC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("querying case history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Operation, &e.Query,
			&e.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates file and history counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByConfidence: make(map[string]int)}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(passages), 0) FROM files`,
	).Scan(&stats.Files, &stats.Passages)
	if err != nil {
		return stats, fmt.Errorf("counting files: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processing_history`,
	).Scan(&stats.Operations)
	if err != nil {
		return stats, fmt.Errorf("counting history: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT confidence, COUNT(*) FROM processing_history
		 WHERE confidence != '' GROUP BY confidence`)
	if err != nil {
		return stats, fmt.Errorf("grouping by confidence: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var confidence string
		var count int
		if err := rows.Scan(&confidence, &count); err != nil {
			return stats, fmt.Errorf("scanning confidence count: %w", err)
		}
		stats.ByConfidence[confidence] = count
	}
	return stats, rows.Err()
}
