package covers

import (
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

func TestMigrateInlineToFiles(t *testing.T) {
	st := newTestStore(t)
	storage := NewStorage(t.TempDir())

	track := &store.Track{Path: "/music/a.mp3", Title: "A", Album: "X", Cover: jpegPayload}
	if err := st.InsertTrack(track); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}
	album := &store.Album{Name: "X", ArtData: jpegPayload}
	if err := st.InsertAlbum(album); err != nil {
		t.Fatalf("failed to insert album: %v", err)
	}
	// A track without any cover must not be selected
	bare := &store.Track{Path: "/music/b.mp3", Title: "B", Album: "X"}
	if err := st.InsertTrack(bare); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}

	migrator := NewMigrator(st, storage, nil)
	progress, err := migrator.Run()
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	if progress.Total != 2 || progress.Processed != 2 {
		t.Errorf("expected total=processed=2, got %d/%d", progress.Processed, progress.Total)
	}
	if progress.TracksMigrated != 1 || progress.AlbumsMigrated != 1 {
		t.Errorf("expected 1 track and 1 album migrated, got %d and %d",
			progress.TracksMigrated, progress.AlbumsMigrated)
	}
	if len(progress.Errors) != 0 {
		t.Errorf("unexpected errors: %v", progress.Errors)
	}
	if want := int64(2 * len(jpegPayload)); progress.BytesMigrated != want {
		t.Errorf("expected %d bytes migrated, got %d", want, progress.BytesMigrated)
	}

	got, err := st.GetTrackByID(track.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if got.CoverPath == "" {
		t.Errorf("cover path not recorded")
	}
	// The inline payload stays until an explicit clear
	if len(got.Cover) == 0 {
		t.Errorf("inline cover was removed by migration")
	}

	gotAlbum, err := st.GetAlbumByID(album.ID)
	if err != nil {
		t.Fatalf("failed to get album: %v", err)
	}
	if gotAlbum.ArtPath == "" {
		t.Errorf("art path not recorded")
	}
}

func TestMigrateRowFailureDoesNotAbortBatch(t *testing.T) {
	st := newTestStore(t)
	storage := NewStorage(t.TempDir())

	// A zero-length blob is selected for migration but rejected by the
	// file writer, failing exactly one row of the batch
	broken := &store.Track{Path: "/music/broken.mp3", Album: "X", Cover: []byte{}}
	if err := st.InsertTrack(broken); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}
	good := &store.Track{Path: "/music/good.mp3", Album: "X", Cover: jpegPayload}
	if err := st.InsertTrack(good); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}

	migrator := NewMigrator(st, storage, nil)
	progress, err := migrator.Run()
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	if progress.Total != 2 || progress.Processed != 2 {
		t.Errorf("every selected row must be attempted, got %d/%d",
			progress.Processed, progress.Total)
	}
	if progress.TracksMigrated != 1 {
		t.Errorf("expected the good row to migrate, got %d", progress.TracksMigrated)
	}
	if len(progress.Errors) != 1 {
		t.Errorf("expected exactly one recorded error, got %v", progress.Errors)
	}

	gotGood, err := st.GetTrackByID(good.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if gotGood.CoverPath == "" {
		t.Errorf("good row did not gain a cover path")
	}

	// The failed row keeps no path, so a later run retries it
	gotBroken, err := st.GetTrackByID(broken.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if gotBroken.CoverPath != "" {
		t.Errorf("failed row must not gain a cover path, got %s", gotBroken.CoverPath)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	storage := NewStorage(t.TempDir())

	for _, path := range []string{"/music/a.mp3", "/music/b.mp3"} {
		track := &store.Track{Path: path, Album: "X", Cover: jpegPayload}
		if err := st.InsertTrack(track); err != nil {
			t.Fatalf("failed to insert track: %v", err)
		}
	}

	migrator := NewMigrator(st, storage, nil)
	first, err := migrator.Run()
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.TracksMigrated != 2 {
		t.Fatalf("expected 2 tracks migrated, got %d", first.TracksMigrated)
	}

	second, err := migrator.Run()
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Total != 0 || second.TracksMigrated != 0 || second.AlbumsMigrated != 0 {
		t.Errorf("second run migrated rows again: %+v", second)
	}
	if len(second.Errors) != 0 {
		t.Errorf("second run produced errors: %v", second.Errors)
	}
}

func TestClearAfterMigration(t *testing.T) {
	st := newTestStore(t)
	storage := NewStorage(t.TempDir())

	track := &store.Track{Path: "/music/a.mp3", Album: "X", Cover: jpegPayload}
	if err := st.InsertTrack(track); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}
	pending := &store.Track{Path: "/music/b.mp3", Album: "X", Cover: jpegPayload}
	if err := st.InsertTrack(pending); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}

	migrator := NewMigrator(st, storage, nil)
	if _, err := migrator.Run(); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	cleared, err := st.ClearMigratedInline()
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if cleared != 2 {
		t.Errorf("expected 2 rows cleared, got %d", cleared)
	}

	got, err := st.GetTrackByID(track.ID)
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if len(got.Cover) != 0 {
		t.Errorf("inline cover survived clear")
	}
	if got.CoverPath == "" {
		t.Errorf("clear must not touch the path pointer")
	}
}
