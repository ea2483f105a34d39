package domain

import (
	"context"
	"time"
)

// StoredDocument is one named configuration snapshot: the rendered settings
// XML plus the companion rules CSV (empty when the document has no rules).
type StoredDocument struct {
	Name      string    `json:"name"`
	Settings  []byte    `json:"settings"`
	Rules     []byte    `json:"rules,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentStore persists named configuration snapshots. Implementations are
// selected by driver at startup and mirror the same semantics.
type DocumentStore interface {
	Put(ctx context.Context, doc StoredDocument) error
	Get(ctx context.Context, name string) (StoredDocument, error)
	List(ctx context.Context) ([]StoredDocument, error)
	Delete(ctx context.Context, name string) error
}
