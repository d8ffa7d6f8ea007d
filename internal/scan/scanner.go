package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/schollz/progressbar/v3"

	"github.com/SmileofHaven/Audion-Changes/internal/report"
	"github.com/SmileofHaven/Audion-Changes/internal/store"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// AudioExtensions are the supported audio file extensions
var AudioExtensions = []string{
	".mp3",
	".flac",
	".m4a",
	".ogg",
	".opus",
}

// Scanner ingests a music directory tree: tags are read per file and any
// embedded picture is stored as the track's inline cover payload, the legacy
// representation the migration engine later drains into files.
type Scanner struct {
	store      *store.Store
	extensions map[string]bool
	logger     *report.EventLogger

	// ShowProgress draws a progress bar over the processing phase
	ShowProgress bool
}

// New creates a new Scanner
func New(st *store.Store, logger *report.EventLogger) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range AudioExtensions {
		extMap[ext] = true
	}

	return &Scanner{
		store:      st,
		extensions: extMap,
		logger:     logger,
	}
}

// Result represents a scan result
type Result struct {
	TracksAdded int
	CoversFound int
	Errors      []string
}

// Scan walks the source directory and upserts every audio file it finds
func (s *Scanner) Scan(sourcePath string) (*Result, error) {
	util.InfoLog("Scanning music library: %s", sourcePath)

	result := &Result{Errors: make([]string, 0)}

	var paths []string
	err := filepath.WalkDir(sourcePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("walk %s: %v", path, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if s.extensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", sourcePath, err)
	}

	util.InfoLog("Found %d audio files", len(paths))

	var bar *progressbar.ProgressBar
	if s.ShowProgress && len(paths) > 0 {
		bar = progressbar.Default(int64(len(paths)), "scanning")
	}

	for _, path := range paths {
		s.ingest(path, result)
		if bar != nil {
			bar.Add(1)
		}
	}

	util.SuccessLog("Scan complete: %d tracks, %d with embedded covers, %d errors",
		result.TracksAdded, result.CoversFound, len(result.Errors))

	return result, nil
}

// ingest reads one file's tags and upserts its track and album rows
func (s *Scanner) ingest(path string, result *Result) {
	f, err := os.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("open %s: %v", path, err))
		s.logger.LogError(report.EventScan, path, err)
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read tags %s: %v", path, err))
		s.logger.LogError(report.EventScan, path, err)
		return
	}

	title := m.Title()
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var cover []byte
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		cover = pic.Data
		result.CoversFound++
	}

	track := &store.Track{
		Path:   path,
		Title:  title,
		Artist: m.Artist(),
		Album:  m.Album(),
		Cover:  cover,
	}
	if err := s.store.InsertTrack(track); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("insert %s: %v", path, err))
		s.logger.LogError(report.EventScan, path, err)
		return
	}
	result.TracksAdded++
	util.DebugLog("Ingested track %d: %s", track.ID, path)

	if track.Album != "" {
		albumArtist := m.AlbumArtist()
		if albumArtist == "" {
			albumArtist = m.Artist()
		}
		// Album art starts out as the first embedded cover seen for the
		// album; the upsert keeps existing art
		album := &store.Album{
			Name:    track.Album,
			Artist:  albumArtist,
			ArtData: cover,
		}
		if err := s.store.InsertAlbum(album); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("insert album %q: %v", track.Album, err))
		}
	}
}
