package core

import (
	"path/filepath"
	"testing"

	"physiconf/internal/infra/persistence/memory"
	"physiconf/internal/infra/persistence/sqlite"
)

func TestOpenDocumentStoreMemory(t *testing.T) {
	t.Setenv("PHYSICONF_STORAGE_DRIVER", "memory")
	store, err := OpenDocumentStore()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestOpenDocumentStoreSQLite(t *testing.T) {
	t.Setenv("PHYSICONF_STORAGE_DRIVER", "sqlite")
	t.Setenv("PHYSICONF_SQLITE_PATH", filepath.Join(t.TempDir(), "docs.db"))
	store, err := OpenDocumentStore()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenDocumentStoreUnknownDriver(t *testing.T) {
	t.Setenv("PHYSICONF_STORAGE_DRIVER", "etcd")
	if _, err := OpenDocumentStore(); err == nil {
		t.Fatal("unknown driver must fail")
	}
}
