// Package testutil provides shared fixtures for tests that need a real history
// database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/ccgen/internal/storage"
)

// SetupTestStore opens a migrated in-memory history store seeded with bins,
// oldest first. The store is closed when the test ends.
func SetupTestStore(t *testing.T, bins ...string) *storage.SQLiteStorage {
	t.Helper()
	return SetupTestStoreAt(t, ":memory:", bins...)
}

// SetupTestStoreAt behaves like SetupTestStore but persists to path, so a
// command under test can reopen the same database.
func SetupTestStoreAt(t *testing.T, path string, bins ...string) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, bin := range bins {
		if err := store.RememberBIN(ctx, bin); err != nil {
			t.Fatalf("failed to seed BIN %q: %v", bin, err)
		}
	}
	return store
}

// LastBIN returns the most recently remembered BIN or fails the test.
func LastBIN(t *testing.T, store *storage.SQLiteStorage) string {
	t.Helper()
	last, err := store.LastBIN(context.Background())
	if err != nil {
		t.Fatalf("failed to read last BIN: %v", err)
	}
	return last
}
