package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SmileofHaven/Audion-Changes/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestScanFiltersNonAudioFiles(t *testing.T) {
	st := newTestStore(t)
	tmpDir := t.TempDir()

	albumDir := filepath.Join(tmpDir, "Artist", "Album")
	if err := os.MkdirAll(albumDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Files without a valid tag container fail extraction; non-audio
	// extensions are never opened at all
	files := map[string][]byte{
		filepath.Join(albumDir, "01 - Track.mp3"): []byte("not a real mp3"),
		filepath.Join(tmpDir, "cover.jpg"):        {0xFF, 0xD8},
		filepath.Join(tmpDir, "README.txt"):       []byte("ignore me"),
	}
	for path, data := range files {
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
	}

	scanner := New(st, nil)
	result, err := scanner.Scan(tmpDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if result.TracksAdded != 0 {
		t.Errorf("garbage audio file must not produce a track, got %d", result.TracksAdded)
	}
	// Only the .mp3 is attempted; its tag-read failure is the single error
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 tag-read error, got %v", result.Errors)
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	st := newTestStore(t)

	scanner := New(st, nil)
	result, err := scanner.Scan(t.TempDir())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if result.TracksAdded != 0 || result.CoversFound != 0 || len(result.Errors) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
