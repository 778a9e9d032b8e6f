package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Backend names accepted by Open.
const (
	BackendSQLite    = "sqlite"
	BackendFile      = "file"
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendDynamoDB  = "dynamodb"
)

// Config selects and configures a BlobStore backend.
type Config struct {
	Backend             string
	Path                string
	Dir                 string
	FirestoreProject    string
	FirestoreCollection string
	DynamoDB            DynamoConfig
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		return validateString(c.Path, "storage.path")
	case BackendFile:
		return validateString(c.Dir, "storage.dir")
	case BackendMemory:
		return nil
	case BackendFirestore:
		return validateString(c.FirestoreProject, "storage.firestore.project")
	case BackendDynamoDB:
		return validateString(c.DynamoDB.Table, "storage.dynamodb.table")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
}

// Open constructs the configured backend, migrating it when it has a schema.
func Open(ctx context.Context, cfg Config) (BlobStore, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("opening snapshot store", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendSQLite:
		store, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	case BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFirestore:
		return NewFirestoreStore(ctx, cfg.FirestoreProject, cfg.FirestoreCollection)
	case BackendDynamoDB:
		return NewDynamoStore(ctx, cfg.DynamoDB)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
