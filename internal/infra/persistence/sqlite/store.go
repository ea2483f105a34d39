// Package sqlite provides an embedded SQLite-backed document store. It
// mirrors the in-memory semantics and snapshots the full document set to a
// single table after every successful mutation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"physiconf/internal/infra/persistence/memory"
	"physiconf/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.DocumentStore = (*Store)(nil)

// Store wraps the in-memory store with a SQLite snapshot table.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens or creates the SQLite file and hydrates the in-memory
// working set from any existing rows.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "physiconf.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		settings BLOB NOT NULL,
		rules BLOB,
		updated_at TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT name, settings, rules, updated_at FROM documents`)
	if err != nil {
		return fmt.Errorf("select documents: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var docs []domain.StoredDocument
	for rows.Next() {
		var doc domain.StoredDocument
		var updated string
		if err := rows.Scan(&doc.Name, &doc.Settings, &doc.Rules, &updated); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return fmt.Errorf("decode updated_at: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate documents: %w", err)
	}
	s.ImportState(docs)
	return nil
}

// Put stores the document in memory and upserts the row.
func (s *Store) Put(ctx context.Context, doc domain.StoredDocument) error {
	if err := s.Store.Put(ctx, doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO documents (name, settings, rules, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET settings=excluded.settings, rules=excluded.rules, updated_at=excluded.updated_at`,
		doc.Name, doc.Settings, doc.Rules, doc.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Delete removes the document from memory and the table.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.Store.Delete(ctx, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
