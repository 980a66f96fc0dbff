// Package testutil provides shared test helpers for setting up document
// stores and catalogs.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/vistrack/internal/index"
	"github.com/starford/vistrack/internal/storage"
)

// SampleDocument is a valid sequence document with one visibility track
// holding three frames.
const SampleDocument = `name: Shot010
frame_rate: 24
tracks:
  - kind: visibility
    name: VisTrack
    interpolation: Linear
    propagate_to_children: true
    frames:
      - frame: 0
        visible: true
      - frame: 10
        visible: false
      - frame: 20
        visible: true
`

// TestDB creates a temporary SQLite catalog that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "vistrack-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a temporary document root with a storage.Provider.
func TestStore(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteDocument writes content under root without going through the store.
func WriteDocument(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
