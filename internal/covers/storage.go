package covers

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// imageExtensions is the allow-list of cover file extensions, matched
// case-insensitively
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImageFile reports whether the filename carries an allowed image extension
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Storage persists cover payloads under a fixed directory layout:
// <root>/tracks/<track_id>.<ext> and <root>/albums/<album_id>.<ext>.
// Files are content-addressed by owner id, not by content hash.
type Storage struct {
	root string
}

// NewStorage creates a Storage rooted at the given covers directory
func NewStorage(root string) *Storage {
	return &Storage{root: root}
}

// Root returns the covers root directory
func (s *Storage) Root() string {
	return s.root
}

// TracksDir returns the directory holding per-track cover files
func (s *Storage) TracksDir() string {
	return filepath.Join(s.root, "tracks")
}

// AlbumsDir returns the directory holding per-album art files
func (s *Storage) AlbumsDir() string {
	return filepath.Join(s.root, "albums")
}

// WriteTrackCover writes a track's cover payload and returns the file path
func (s *Storage) WriteTrackCover(trackID int64, data []byte) (string, error) {
	return s.write(s.TracksDir(), trackID, data)
}

// WriteAlbumArt writes an album's art payload and returns the file path
func (s *Storage) WriteAlbumArt(albumID int64, data []byte) (string, error) {
	return s.write(s.AlbumsDir(), albumID, data)
}

// write persists a payload atomically using a .part temporary file
func (s *Storage) write(dir string, id int64, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty cover payload for id %d: %w", id, util.ErrUnsupported)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, strconv.FormatInt(id, 10)+sniffExt(data))
	tempPath := path + ".part"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up on error
		return "", fmt.Errorf("failed to rename: %w", err)
	}

	return path, nil
}

// DeleteFile removes a cover file by path. An empty path is a no-op, and a
// file that is already gone is treated as resolved rather than an error; the
// bool reports whether a file was actually removed this call.
func (s *Storage) DeleteFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}

	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to delete %s: %w", path, err)
}

// sniffExt picks a file extension from the payload's magic bytes, defaulting
// to .jpg when the format is unrecognized
func sniffExt(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}):
		return ".png"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return ".webp"
	default:
		return ".jpg"
	}
}
