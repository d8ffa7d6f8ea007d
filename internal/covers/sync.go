package covers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SmileofHaven/Audion-Changes/internal/report"
	"github.com/SmileofHaven/Audion-Changes/internal/store"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// discovered is a cover file found on disk whose filename stem is an id
type discovered struct {
	path string
	id   int64
}

// Syncer reconciles on-disk cover files with store pointers, for libraries
// where files were placed externally or the store was reset
type Syncer struct {
	store  *store.Store
	root   string
	logger *report.EventLogger
}

// NewSyncer creates a Syncer scanning the covers tree at root
func NewSyncer(st *store.Store, coversRoot string, logger *report.EventLogger) *Syncer {
	return &Syncer{
		store:  st,
		root:   coversRoot,
		logger: logger,
	}
}

// Run scans <root>/tracks and <root>/albums for image files named by numeric
// id and points the matching rows at them. All track updates run in one
// transaction, all album updates in another; a row-level failure is recorded
// but the transaction still commits whatever succeeded.
func (s *Syncer) Run() (*MigrationProgress, error) {
	util.InfoLog("Syncing cover paths from files under %s", s.root)

	progress := &MigrationProgress{Errors: make([]string, 0)}

	trackFiles := s.scanDir(filepath.Join(s.root, "tracks"), progress)
	albumFiles := s.scanDir(filepath.Join(s.root, "albums"), progress)

	progress.Total = len(trackFiles) + len(albumFiles)
	progress.Processed = progress.Total

	progress.TracksMigrated = s.apply(trackFiles,
		"UPDATE tracks SET cover_path = ? WHERE id = ?", "track", progress)
	progress.AlbumsMigrated = s.apply(albumFiles,
		"UPDATE albums SET art_path = ? WHERE id = ?", "album", progress)

	util.SuccessLog("Sync complete: %d tracks, %d albums, %d not found, %d errors",
		progress.TracksMigrated, progress.AlbumsMigrated, progress.NotFound, len(progress.Errors))

	return progress, nil
}

// scanDir collects (path, id) pairs for regular files with an allowed image
// extension and a numeric filename stem. A missing directory is not an error;
// a read failure is recorded and yields zero candidates.
func (s *Syncer) scanDir(dir string, progress *MigrationProgress) []discovered {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			util.InfoLog("Directory %s does not exist, skipping", dir)
			return nil
		}
		msg := fmt.Sprintf("failed to read directory %s: %v", dir, err)
		util.WarnLog("%s", msg)
		progress.Errors = append(progress.Errors, msg)
		return nil
	}

	var found []discovered
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !IsImageFile(name) {
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		id, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			continue
		}

		found = append(found, discovered{path: filepath.Join(dir, name), id: id})
	}

	util.DebugLog("Found %d cover files in %s", len(found), dir)
	return found
}

// apply runs all updates for one kind in a single transaction and returns the
// synced count. Zero rows affected means the id has no row; that is counted
// as not-found, logged, and deliberately kept out of the error list.
func (s *Syncer) apply(files []discovered, query, kind string, progress *MigrationProgress) int {
	if len(files) == 0 {
		return 0
	}

	synced := 0
	err := s.store.Transaction(func(tx *sql.Tx) error {
		for _, f := range files {
			res, err := tx.Exec(query, f.path, f.id)
			if err != nil {
				msg := fmt.Sprintf("failed to update %s %d: %v", kind, f.id, err)
				util.WarnLog("%s", msg)
				progress.Errors = append(progress.Errors, msg)
				continue
			}

			if n, _ := res.RowsAffected(); n > 0 {
				synced++
				if kind == "track" {
					s.logger.LogSync(f.id, 0, f.path, true)
				} else {
					s.logger.LogSync(0, f.id, f.path, true)
				}
			} else {
				progress.NotFound++
				util.DebugLog("No %s with id %d in store for %s", kind, f.id, f.path)
				if kind == "track" {
					s.logger.LogSync(f.id, 0, f.path, false)
				} else {
					s.logger.LogSync(0, f.id, f.path, false)
				}
			}
		}
		return nil
	})
	if err != nil {
		progress.Errors = append(progress.Errors, fmt.Sprintf("transaction commit failed: %v", err))
	}

	return synced
}
