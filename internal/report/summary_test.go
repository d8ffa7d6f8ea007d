package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SmileofHaven/Audion-Changes/internal/store"
)

func TestGenerateSummaryReport(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := store.Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	coversRoot := filepath.Join(tmpDir, "covers")
	tracksDir := filepath.Join(coversRoot, "tracks")
	if err := os.MkdirAll(tracksDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Two tracks of one album pointing at two distinct cover files, plus
	// one track still pending migration
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}
	for _, name := range []string{"1.jpg", "2.jpg"} {
		path := filepath.Join(tracksDir, name)
		if err := os.WriteFile(path, payload, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		track := &store.Track{Path: "/m/" + name + ".mp3", Album: "X"}
		if err := db.InsertTrack(track); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := db.UpdateTrackCoverPath(track.ID, path); err != nil {
			t.Fatalf("set path: %v", err)
		}
	}
	pending := &store.Track{Path: "/m/p.mp3", Album: "X", Cover: payload}
	if err := db.InsertTrack(pending); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// An orphan nothing references
	if err := os.WriteFile(filepath.Join(tracksDir, "9.jpg"), payload, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := GenerateSummaryReport(db, coversRoot)
	if err != nil {
		t.Fatalf("GenerateSummaryReport failed: %v", err)
	}

	if report.Tracks.InlineOnly != 1 {
		t.Errorf("expected 1 track pending migration, got %d", report.Tracks.InlineOnly)
	}
	if report.Tracks.PathOnly != 2 {
		t.Errorf("expected 2 path-only tracks, got %d", report.Tracks.PathOnly)
	}
	if report.TrackCoverFiles != 3 {
		t.Errorf("expected 3 files in the tracks dir, got %d", report.TrackCoverFiles)
	}
	if report.OrphanFiles != 1 {
		t.Errorf("expected 1 orphan, got %d", report.OrphanFiles)
	}
	if len(report.MergeCandidates) != 1 || report.MergeCandidates[0].Album != "X" {
		t.Errorf("expected album X as a merge candidate, got %+v", report.MergeCandidates)
	}
	if report.MergeCandidates[0].DistinctFiles != 2 {
		t.Errorf("expected 2 distinct files, got %d", report.MergeCandidates[0].DistinctFiles)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("Expected GeneratedAt to be set")
	}
}

func TestWriteMarkdownReport(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "reports", "summary.md")

	report := &SummaryReport{
		GeneratedAt:     time.Now(),
		DatabasePath:    "/tmp/library.db",
		CoversRoot:      "/tmp/covers",
		Tracks:          &store.StateCounts{InlineOnly: 3, PathOnly: 10, Both: 2},
		Albums:          &store.StateCounts{PathOnly: 4},
		TrackCoverFiles: 12,
		TrackCoverBytes: 1 << 20,
		OrphanFiles:     1,
		OrphanBytes:     4096,
		MergeCandidates: []MergeCandidate{
			{Album: "Greatest Hits", Tracks: 5, DistinctFiles: 3},
		},
	}

	if err := WriteMarkdownReport(report, outputPath); err != nil {
		t.Fatalf("WriteMarkdownReport failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# Cover Reconciliation - Summary Report",
		"`/tmp/library.db`",
		"Inline Only (pending migration) | 3",
		"Greatest Hits",
		"Orphaned Files | 1",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("short", 10); got != "short" {
		t.Errorf("short string must not be truncated, got %q", got)
	}
	long := strings.Repeat("a", 50) + "/tail.jpg"
	got := truncatePath(long, 20)
	if len(got) != 20 || !strings.HasPrefix(got, "...") {
		t.Errorf("unexpected truncation: %q", got)
	}
}
