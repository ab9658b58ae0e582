package integration_tests

import (
	"context"
	"testing"

	"github.com/rubiojr/qboard/pkg/db"
	"github.com/rubiojr/qboard/pkg/storage"
)

func TestOpenMigratesFreshDatabase(t *testing.T) {
	ctx := context.Background()
	path := tempDBPath(t)

	raw, err := storage.Open(ctx, path, storage.Options{SkipMigrations: true})
	if err != nil {
		t.Fatalf("Failed to open without migrations: %v", err)
	}
	mm := db.NewMigrationManager(raw.DB())
	if err := mm.EnsureMigrationsTable(ctx); err != nil {
		t.Fatalf("Failed to create migrations table: %v", err)
	}
	pending, err := mm.PendingMigrations(ctx)
	if err != nil {
		t.Fatalf("Failed to list pending migrations: %v", err)
	}
	if len(pending) == 0 {
		t.Fatal("Expected pending migrations on a fresh database")
	}
	if _, err := raw.Stats(ctx); err == nil {
		t.Error("Expected stats to fail before the schema exists")
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	svc := openBoard(t, path, storage.Options{})
	status, err := db.NewMigrationManager(svc.Store().DB()).Status(ctx)
	if err != nil {
		t.Fatalf("Failed to get migration status: %v", err)
	}
	if len(status.Pending) != 0 {
		t.Errorf("Expected no pending migrations after Open, got %d", len(status.Pending))
	}
	if _, err := svc.Stats(ctx); err != nil {
		t.Errorf("Stats failed after migration: %v", err)
	}
}
