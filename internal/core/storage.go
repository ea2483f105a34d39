package core

import (
	"fmt"
	"os"

	"physiconf/internal/infra/persistence/memory"
	"physiconf/internal/infra/persistence/postgres"
	"physiconf/internal/infra/persistence/sqlite"
	"physiconf/pkg/domain"
)

// StorageDriver identifies a concrete document store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenDocumentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	PHYSICONF_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	PHYSICONF_SQLITE_PATH: path to sqlite file (default ./physiconf.db)
//	PHYSICONF_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenDocumentStore() (domain.DocumentStore, error) {
	driver := os.Getenv("PHYSICONF_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("PHYSICONF_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("PHYSICONF_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
