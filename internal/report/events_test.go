package report

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"
)

func TestEventLoggerWritesJSONL(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelInfo)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	if err := logger.LogMigrate(7, 0, "/covers/tracks/7.jpg", 1234, nil); err != nil {
		t.Fatalf("failed to log: %v", err)
	}
	if err := logger.LogDelete("/covers/tracks/8.jpg", 500, nil); err != nil {
		t.Fatalf("failed to log: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	f, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid JSONL line: %v", err)
		}
		events = append(events, e)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != EventMigrate || events[0].TrackID != 7 || events[0].Bytes != 1234 {
		t.Errorf("unexpected migrate event: %+v", events[0])
	}
	if events[1].Event != EventDelete || events[1].Path != "/covers/tracks/8.jpg" {
		t.Errorf("unexpected delete event: %+v", events[1])
	}
	if events[0].Timestamp.IsZero() {
		t.Errorf("timestamp not set")
	}
}

func TestEventLoggerLevelFilter(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelWarning)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	// Info-level events fall below the minimum and are dropped
	if err := logger.LogSweep("/covers/tracks/9.jpg", 100); err != nil {
		t.Fatalf("failed to log: %v", err)
	}
	if err := logger.LogDelete("/covers/tracks/9.jpg", 0, os.ErrPermission); err != nil {
		t.Fatalf("failed to log: %v", err)
	}
	logger.Close()

	data, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("expected exactly one JSON line, got: %s", data)
	}
	if e.Level != LevelError || e.Error == "" {
		t.Errorf("unexpected surviving event: %+v", e)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *EventLogger
	if err := logger.LogMigrate(1, 0, "p", 1, nil); err != nil {
		t.Errorf("nil logger must be a no-op, got: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("nil logger close must be a no-op, got: %v", err)
	}
}
