// Package store persists document processing state and results in SQLite.
// The core pipeline only hands finished CVData over; it has no idea it ends
// up here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/cvextract/internal/cv"
)

// Document statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// ErrNotFound is returned when a document ID does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one tracked upload with its extraction outcome.
type Document struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	OCRApplied bool       `json:"ocr_applied"`
	Result     *cv.CVData `json:"result,omitempty"`
	Issues     []string   `json:"issues,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DocumentStore wraps the SQLite database.
type DocumentStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	ocr_applied INTEGER NOT NULL DEFAULT 0,
	result      TEXT,
	issues      TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
`

// Open opens (creating if needed) the store at path. Use ":memory:" in tests.
func Open(path string) (*DocumentStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DocumentStore{db: db}, nil
}

func (s *DocumentStore) Close() error { return s.db.Close() }

// Insert registers a new pending document.
func (s *DocumentStore) Insert(ctx context.Context, id, filename string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, filename, StatusPending, now, now)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// SetStatus updates a document's status and error message.
func (s *DocumentStore) SetStatus(ctx context.Context, id, status, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, errMsg, now, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return checkAffected(res)
}

// SaveResult stores the finished CVData and validation issues, marking the
// document done.
func (s *DocumentStore) SaveResult(ctx context.Context, id string, data *cv.CVData, issues []string, ocrApplied bool) error {
	resultJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error = '', ocr_applied = ?, result = ?, issues = ?, updated_at = ? WHERE id = ?`,
		StatusDone, boolToInt(ocrApplied), string(resultJSON), string(issuesJSON), now, id)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return checkAffected(res)
}

// Get returns one document with its result, if any.
func (s *DocumentStore) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, status, error, ocr_applied, result, issues, created_at, updated_at
		 FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// List returns documents in reverse creation order, newest first.
func (s *DocumentStore) List(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, status, error, ocr_applied, result, issues, created_at, updated_at
		 FROM documents ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc              Document
		ocr              int
		result, issues   sql.NullString
		created, updated string
	)
	err := row.Scan(&doc.ID, &doc.Filename, &doc.Status, &doc.Error, &ocr, &result, &issues, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	doc.OCRApplied = ocr != 0
	if result.Valid && result.String != "" {
		var data cv.CVData
		if err := json.Unmarshal([]byte(result.String), &data); err != nil {
			return Document{}, fmt.Errorf("unmarshal result: %w", err)
		}
		doc.Result = &data
	}
	if issues.Valid && issues.String != "" {
		if err := json.Unmarshal([]byte(issues.String), &doc.Issues); err != nil {
			return Document{}, fmt.Errorf("unmarshal issues: %w", err)
		}
	}
	doc.CreatedAt, _ = time.Parse(time.RFC3339, created)
	doc.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return doc, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
