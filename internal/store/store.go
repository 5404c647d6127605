// Package store provides a SQLite-backed catalog of ingested documents.
// The catalog is the authority on which document ids exist: a document
// becomes listable only after its chunks are fully indexed, and its row is
// removed before its chunks are torn down.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// ErrNotFound is returned when a document id has no catalog row.
var ErrNotFound = errors.New("store: document not found")

// Document is one catalog entry for an ingested document.
type Document struct {
	// ID is the generated document id.
	ID string
	// Filename is the original upload filename.
	Filename string
	// Pages is the page count reported by extraction, 0 when unknown.
	Pages int
	// Chunks is the number of chunks indexed for this document.
	Chunks int
	// CreatedAt is when ingestion completed.
	CreatedAt time.Time
}

// Catalog persists document records. Implementations must be safe for
// concurrent use.
type Catalog interface {
	// Put inserts or replaces the record for doc.ID.
	Put(ctx context.Context, doc Document) error
	// Get returns the record for the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)
	// List returns all records ordered newest-first.
	List(ctx context.Context) ([]Document, error)
	// Delete removes the record for the given id. Deleting an absent id is
	// a no-op.
	Delete(ctx context.Context, id string) error
	// Close releases any resources held by the catalog.
	Close() error
}

// SQLiteCatalog is a Catalog backed by a local SQLite database.
type SQLiteCatalog struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the document catalog database.
// It resolves to ~/.paperlens/catalog.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".paperlens")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "catalog.db"), nil
}

// Open opens (or creates) a SQLiteCatalog at the given path and runs the
// schema migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteCatalog, error) {
	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	c := &SQLiteCatalog{db: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// migrate creates the schema if it does not already exist.
func (c *SQLiteCatalog) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
    id           TEXT    PRIMARY KEY,
    filename     TEXT    NOT NULL,
    pages        INTEGER NOT NULL DEFAULT 0,
    chunks       INTEGER NOT NULL,
    created_at   INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_documents_created
    ON documents (created_at);
`
	if _, err := c.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Put inserts or replaces the record for doc.ID.
func (c *SQLiteCatalog) Put(ctx context.Context, doc Document) error {
	const q = `INSERT OR REPLACE INTO documents (id, filename, pages, chunks, created_at) VALUES (?, ?, ?, ?, ?)`
	ts := doc.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	if _, err := c.db.ExecContext(ctx, q, doc.ID, doc.Filename, doc.Pages, doc.Chunks, ts.Unix()); err != nil {
		return fmt.Errorf("store: put: %w", err)
	}
	return nil
}

// Get returns the record for the given id, or ErrNotFound.
func (c *SQLiteCatalog) Get(ctx context.Context, id string) (Document, error) {
	const q = `SELECT id, filename, pages, chunks, created_at FROM documents WHERE id = ?`
	var doc Document
	var ts int64
	err := c.db.QueryRowContext(ctx, q, id).Scan(&doc.ID, &doc.Filename, &doc.Pages, &doc.Chunks, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("store: document %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("store: get: %w", err)
	}
	doc.CreatedAt = time.Unix(ts, 0)
	return doc, nil
}

// List returns all records ordered newest-first.
func (c *SQLiteCatalog) List(ctx context.Context) ([]Document, error) {
	const q = `SELECT id, filename, pages, chunks, created_at FROM documents ORDER BY created_at DESC, id DESC`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var ts int64
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Pages, &doc.Chunks, &ts); err != nil {
			return nil, fmt.Errorf("store: list scan: %w", err)
		}
		doc.CreatedAt = time.Unix(ts, 0)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list rows: %w", err)
	}
	return docs, nil
}

// Delete removes the record for the given id. Deleting an absent id is a
// no-op.
func (c *SQLiteCatalog) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = ?`
	if _, err := c.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	return nil
}

// Close releases the database connection pool.
func (c *SQLiteCatalog) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
