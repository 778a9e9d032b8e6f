package storage

import (
	"context"
	"testing"
)

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() failed: %v", err)
	}

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestMigration2_ChecksumColumn(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var count int
	err := store.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('snapshots')
		WHERE name = 'checksum'
	`).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to inspect table: %v", err)
	}
	if count != 1 {
		t.Error("checksum column was not created")
	}
}

func TestMigrations_Ordered(t *testing.T) {
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("migration at index %d has version %d", i, m.Version)
		}
		if m.Description == "" {
			t.Errorf("migration %d has no description", m.Version)
		}
		if len(m.Statements) == 0 {
			t.Errorf("migration %d has no statements", m.Version)
		}
	}
	if last := migrations[len(migrations)-1].Version; last != ExpectedSchemaVersion {
		t.Errorf("last migration %d does not match ExpectedSchemaVersion %d", last, ExpectedSchemaVersion)
	}
}
