// Package postgres provides a Postgres-backed document store mirroring the
// in-memory semantics.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"physiconf/internal/infra/persistence/memory"
	"physiconf/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.DocumentStore = (*Store)(nil)

const (
	driverName = "pgx"
	defaultDSN = "postgres://localhost/physiconf?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

// Store wraps the in-memory store with a Postgres documents table.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens the database, ensures the documents table exists, and
// hydrates the in-memory working set from existing rows.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		settings BYTEA NOT NULL,
		rules BYTEA,
		updated_at TIMESTAMPTZ NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name, settings, rules, updated_at FROM documents`)
	if err != nil {
		return fmt.Errorf("select documents: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var docs []domain.StoredDocument
	for rows.Next() {
		var doc domain.StoredDocument
		if err := rows.Scan(&doc.Name, &doc.Settings, &doc.Rules, &doc.UpdatedAt); err != nil {
			return fmt.Errorf("scan: %w", err)
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
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET settings=EXCLUDED.settings, rules=EXCLUDED.rules, updated_at=EXCLUDED.updated_at`,
		doc.Name, doc.Settings, doc.Rules, doc.UpdatedAt.UTC())
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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
