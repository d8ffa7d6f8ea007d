package covers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SmileofHaven/Audion-Changes/internal/report"
	"github.com/SmileofHaven/Audion-Changes/internal/store"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// SweepResult reports the outcome of an orphan sweep
type SweepResult struct {
	FilesRemoved int
	BytesFreed   int64
	Errors       []string
}

// SweepOrphans removes cover files in the storage tree that no track or album
// row references. With dryRun set it only reports what would be removed.
func SweepOrphans(st *store.Store, storage *Storage, logger *report.EventLogger, dryRun bool) (*SweepResult, error) {
	trackPaths, err := st.AllTrackCoverPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to load track cover paths: %w", err)
	}
	albumPaths, err := st.AllAlbumArtPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to load album art paths: %w", err)
	}

	referenced := make(map[string]bool, len(trackPaths)+len(albumPaths))
	for _, p := range trackPaths {
		referenced[filepath.Clean(p)] = true
	}
	for _, p := range albumPaths {
		referenced[filepath.Clean(p)] = true
	}

	result := &SweepResult{Errors: make([]string, 0)}

	for _, dir := range []string{storage.TracksDir(), storage.AlbumsDir()} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", dir, err))
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !IsImageFile(entry.Name()) {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if referenced[filepath.Clean(path)] {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to stat %s: %v", path, err))
				continue
			}

			if dryRun {
				util.InfoLog("Would remove orphaned cover: %s", path)
				result.FilesRemoved++
				result.BytesFreed += info.Size()
				continue
			}

			if err := os.Remove(path); err != nil {
				if os.IsNotExist(err) {
					continue
				}
				result.Errors = append(result.Errors, fmt.Sprintf("failed to remove %s: %v", path, err))
				continue
			}

			result.FilesRemoved++
			result.BytesFreed += info.Size()
			logger.LogSweep(path, info.Size())
			util.DebugLog("Removed orphaned cover: %s", path)
		}
	}

	return result, nil
}
