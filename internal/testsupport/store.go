package testsupport

import (
	"path/filepath"
	"testing"

	"champtimer/internal/results"
)

// MustOpenStore opens a store backed by a per-test temp database and
// registers cleanup.
func MustOpenStore(t testing.TB) *results.Store {
	t.Helper()

	store, err := results.OpenStore(filepath.Join(t.TempDir(), "champtimer.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}
