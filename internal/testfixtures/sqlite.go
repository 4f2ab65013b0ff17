package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence/sqlite"
)

// NewSQLiteStore opens a migrated SQLite store backed by a temporary file and
// registers cleanup with the provided testing.TB.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "busalarm.db")

	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate store: %v", err)
	}

	tb.Cleanup(func() { _ = store.Close() })
	return store
}
