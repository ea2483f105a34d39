// Package memory provides the in-memory document store used directly in
// tests and as the working set behind the persistent drivers.
package memory

import (
	"context"
	"sort"
	"sync"

	"physiconf/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.DocumentStore = (*Store)(nil)

// Store keeps documents in a map guarded by a mutex. All accessors copy
// payloads so callers never share backing storage with the store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]domain.StoredDocument
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{docs: make(map[string]domain.StoredDocument)}
}

// Put inserts or replaces a document by name.
func (s *Store) Put(_ context.Context, doc domain.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Name] = cloneDocument(doc)
	return nil
}

// Get retrieves a document by name.
func (s *Store) Get(_ context.Context, name string) (domain.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return domain.StoredDocument{}, domain.ErrNotFound{Kind: domain.KindDocument, Name: name}
	}
	return cloneDocument(doc), nil
}

// List returns all documents sorted by name.
func (s *Store) List(_ context.Context) ([]domain.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.StoredDocument, 0, len(names))
	for _, name := range names {
		out = append(out, cloneDocument(s.docs[name]))
	}
	return out, nil
}

// Delete removes a document by name.
func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return domain.ErrNotFound{Kind: domain.KindDocument, Name: name}
	}
	delete(s.docs, name)
	return nil
}

// ExportState snapshots the full document set. The persistent drivers call
// this after every successful mutation.
func (s *Store) ExportState() []domain.StoredDocument {
	docs, _ := s.List(context.Background())
	return docs
}

// ImportState replaces the document set with the supplied snapshot.
func (s *Store) ImportState(docs []domain.StoredDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]domain.StoredDocument, len(docs))
	for _, doc := range docs {
		s.docs[doc.Name] = cloneDocument(doc)
	}
}

func cloneDocument(doc domain.StoredDocument) domain.StoredDocument {
	doc.Settings = append([]byte(nil), doc.Settings...)
	doc.Rules = append([]byte(nil), doc.Rules...)
	return doc
}
