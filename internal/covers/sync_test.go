package covers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/SmileofHaven/Audion-Changes/internal/store"
)

func TestSyncPathsFromFiles(t *testing.T) {
	st := newTestStore(t)

	track := &store.Track{Path: "/music/a.mp3", Album: "X"}
	if err := st.InsertTrack(track); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}
	album := &store.Album{Name: "X"}
	if err := st.InsertAlbum(album); err != nil {
		t.Fatalf("failed to insert album: %v", err)
	}

	root := t.TempDir()
	tracksDir := filepath.Join(root, "tracks")
	albumsDir := filepath.Join(root, "albums")
	if err := os.MkdirAll(tracksDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(albumsDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	writeTemp(t, tracksDir, fmt.Sprintf("%d.jpg", track.ID), jpegPayload)
	writeTemp(t, albumsDir, fmt.Sprintf("%d.png", album.ID), jpegPayload)
	// Ignored: not an image, not a numeric stem, unmatched id
	writeTemp(t, tracksDir, "notes.txt", []byte("x"))
	writeTemp(t, tracksDir, "front-cover.jpg", jpegPayload)
	writeTemp(t, tracksDir, "99999.jpg", jpegPayload)

	syncer := NewSyncer(st, root, nil)
	progress, err := syncer.Run()
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if progress.TracksMigrated != 1 {
		t.Errorf("expected 1 track synced, got %d", progress.TracksMigrated)
	}
	if progress.AlbumsMigrated != 1 {
		t.Errorf("expected 1 album synced, got %d", progress.AlbumsMigrated)
	}
	// The unmatched id is a count-zero no-op, not an error
	if progress.NotFound != 1 {
		t.Errorf("expected 1 not-found, got %d", progress.NotFound)
	}
	if len(progress.Errors) != 0 {
		t.Errorf("unexpected errors: %v", progress.Errors)
	}

	got, err := st.GetTrackByID(track.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	want := filepath.Join(tracksDir, fmt.Sprintf("%d.jpg", track.ID))
	if got.CoverPath != want {
		t.Errorf("expected cover path %s, got %s", want, got.CoverPath)
	}

	gotAlbum, err := st.GetAlbumByID(album.ID)
	if err != nil {
		t.Fatalf("failed to get album: %v", err)
	}
	if gotAlbum.ArtPath == "" {
		t.Errorf("album art path not synced")
	}
}

func TestSyncMissingDirectories(t *testing.T) {
	st := newTestStore(t)

	// Neither tracks/ nor albums/ exists; that is not an error
	syncer := NewSyncer(st, filepath.Join(t.TempDir(), "covers"), nil)
	progress, err := syncer.Run()
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if progress.Total != 0 || len(progress.Errors) != 0 {
		t.Errorf("expected empty no-op run, got %+v", progress)
	}
}
