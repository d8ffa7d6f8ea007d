package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventScan    EventType = "scan"
	EventMigrate EventType = "migrate"
	EventSync    EventType = "sync"
	EventMerge   EventType = "merge"
	EventDelete  EventType = "delete"
	EventClear   EventType = "clear"
	EventSweep   EventType = "sweep"
	EventError   EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single reconciliation event
type Event struct {
	Timestamp time.Time  `json:"ts"`
	Level     EventLevel `json:"level"`
	Event     EventType  `json:"event"`
	TrackID   int64      `json:"track_id,omitempty"`
	AlbumID   int64      `json:"album_id,omitempty"`
	Album     string     `json:"album,omitempty"`
	Path      string     `json:"path,omitempty"`
	Canonical string     `json:"canonical,omitempty"`
	Members   int        `json:"members,omitempty"`
	Bytes     int64      `json:"bytes,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogMigrate logs a single inline-to-file migration
func (l *EventLogger) LogMigrate(trackID, albumID int64, path string, bytes int64, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level:   level,
		Event:   EventMigrate,
		TrackID: trackID,
		AlbumID: albumID,
		Path:    path,
		Bytes:   bytes,
		Error:   errMsg,
	})
}

// LogSync logs a path-pointer sync for one discovered file
func (l *EventLogger) LogSync(trackID, albumID int64, path string, matched bool) error {
	level := LevelInfo
	if !matched {
		level = LevelDebug
	}

	return l.Log(&Event{
		Level:   level,
		Event:   EventSync,
		TrackID: trackID,
		AlbumID: albumID,
		Path:    path,
	})
}

// LogMerge logs a duplicate group collapsing to its canonical cover
func (l *EventLogger) LogMerge(album, canonical string, members int, bytesSaved int64) error {
	return l.Log(&Event{
		Level:     LevelInfo,
		Event:     EventMerge,
		Album:     album,
		Canonical: canonical,
		Members:   members,
		Bytes:     bytesSaved,
	})
}

// LogDelete logs a redundant cover file deletion
func (l *EventLogger) LogDelete(path string, bytes int64, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level: level,
		Event: EventDelete,
		Path:  path,
		Bytes: bytes,
		Error: errMsg,
	})
}

// LogSweep logs the removal of an orphaned cover file
func (l *EventLogger) LogSweep(path string, bytes int64) error {
	return l.Log(&Event{
		Level: LevelInfo,
		Event: EventSweep,
		Path:  path,
		Bytes: bytes,
	})
}

// LogError logs a generic error event
func (l *EventLogger) LogError(event EventType, path string, err error) error {
	return l.Log(&Event{
		Level: LevelError,
		Event: event,
		Path:  path,
		Error: err.Error(),
	})
}

// Path returns the path of the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.file.Close()
	l.file = nil
	return err
}
