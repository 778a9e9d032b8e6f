package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	runBlobStoreContract(t, store)
}

func TestSQLiteStore_ChecksumMismatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Save(ctx, "budget_state", []byte(`{"user":{}}`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if _, err := store.db.Exec(`UPDATE snapshots SET data = ? WHERE key = ?`, []byte(`{"user":`), "budget_state"); err != nil {
		t.Fatalf("Failed to tamper with blob: %v", err)
	}

	_, err := store.Load(ctx, "budget_state")
	if !errors.Is(err, ErrCorruptBlob) {
		t.Errorf("Load() error = %v, want ErrCorruptBlob", err)
	}
}

func TestSQLiteStore_LegacyRowWithoutChecksum(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if _, err := store.db.Exec(`INSERT INTO snapshots (key, data) VALUES (?, ?)`, "budget_state", []byte("legacy")); err != nil {
		t.Fatalf("Failed to insert legacy row: %v", err)
	}

	got, err := store.Load(context.Background(), "budget_state")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(got) != "legacy" {
		t.Errorf("Load() = %q, want legacy", got)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "budget.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	if err := first.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if err := first.Save(ctx, "budget_state", []byte("persisted")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	second, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = second.Close() }()
	if err := second.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() on reopen failed: %v", err)
	}

	got, err := second.Load(ctx, "budget_state")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Load() = %q, want persisted", got)
	}
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore("  "); !errors.Is(err, ErrEmptyString) {
		t.Errorf("NewSQLiteStore() error = %v, want ErrEmptyString", err)
	}
}
