package covers

import (
	"fmt"

	"github.com/SmileofHaven/Audion-Changes/internal/report"
	"github.com/SmileofHaven/Audion-Changes/internal/store"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// MigrationProgress reports the outcome of a migration or sync run.
// Processed counts every row attempted; the migrated counts include only rows
// whose store update also succeeded.
type MigrationProgress struct {
	Total          int
	Processed      int
	TracksMigrated int
	AlbumsMigrated int
	BytesMigrated  int64
	NotFound       int // sync only: discovered files whose id matched no row
	Errors         []string
}

// Migrator converts inline cover blobs into content-addressed files and
// records the resulting paths, for tracks and albums independently
type Migrator struct {
	store   *store.Store
	storage *Storage
	logger  *report.EventLogger

	// OnProgress, when set, is invoked after every row attempt
	OnProgress func(processed, total int)
}

// NewMigrator creates a new Migrator
func NewMigrator(st *store.Store, storage *Storage, logger *report.EventLogger) *Migrator {
	return &Migrator{
		store:   st,
		storage: storage,
		logger:  logger,
	}
}

// Run migrates every track and album that still carries an inline payload
// without a path pointer. One row's failure never aborts the batch; re-running
// after a partial failure retries only the remainder, because rows that
// already gained a path are excluded from selection.
func (m *Migrator) Run() (*MigrationProgress, error) {
	util.InfoLog("Starting cover migration")

	// Selection happens under the store lock, which is released before any
	// file I/O begins
	tracks, err := m.store.TracksNeedingMigration()
	if err != nil {
		return nil, fmt.Errorf("failed to select tracks: %w", err)
	}

	albums, err := m.store.AlbumsNeedingMigration()
	if err != nil {
		return nil, fmt.Errorf("failed to select albums: %w", err)
	}

	progress := &MigrationProgress{
		Total:  len(tracks) + len(albums),
		Errors: make([]string, 0),
	}

	util.InfoLog("Found %d track covers and %d album arts to migrate", len(tracks), len(albums))

	for _, t := range tracks {
		path, err := m.storage.WriteTrackCover(t.ID, t.Data)
		if err != nil {
			msg := fmt.Sprintf("failed to save track %d cover: %v", t.ID, err)
			util.WarnLog("%s", msg)
			progress.Errors = append(progress.Errors, msg)
			m.logger.LogMigrate(t.ID, 0, "", 0, err)
			m.step(progress)
			continue
		}

		// Reacquire the lock only long enough to record the path
		if err := m.store.UpdateTrackCoverPath(t.ID, path); err != nil {
			msg := fmt.Sprintf("failed to update track %d path: %v", t.ID, err)
			util.WarnLog("%s", msg)
			progress.Errors = append(progress.Errors, msg)
			m.logger.LogMigrate(t.ID, 0, path, 0, err)
		} else {
			progress.TracksMigrated++
			progress.BytesMigrated += int64(len(t.Data))
			m.logger.LogMigrate(t.ID, 0, path, int64(len(t.Data)), nil)
			util.DebugLog("Migrated track %d cover to %s", t.ID, path)
		}
		m.step(progress)
	}

	for _, a := range albums {
		path, err := m.storage.WriteAlbumArt(a.ID, a.Data)
		if err != nil {
			msg := fmt.Sprintf("failed to save album %d art: %v", a.ID, err)
			util.WarnLog("%s", msg)
			progress.Errors = append(progress.Errors, msg)
			m.logger.LogMigrate(0, a.ID, "", 0, err)
			m.step(progress)
			continue
		}

		if err := m.store.UpdateAlbumArtPath(a.ID, path); err != nil {
			msg := fmt.Sprintf("failed to update album %d path: %v", a.ID, err)
			util.WarnLog("%s", msg)
			progress.Errors = append(progress.Errors, msg)
			m.logger.LogMigrate(0, a.ID, path, 0, err)
		} else {
			progress.AlbumsMigrated++
			progress.BytesMigrated += int64(len(a.Data))
			m.logger.LogMigrate(0, a.ID, path, int64(len(a.Data)), nil)
			util.DebugLog("Migrated album %d art to %s", a.ID, path)
		}
		m.step(progress)
	}

	util.SuccessLog("Migration complete: %d/%d processed, %d tracks, %d albums, %d errors",
		progress.Processed, progress.Total, progress.TracksMigrated,
		progress.AlbumsMigrated, len(progress.Errors))

	return progress, nil
}

func (m *Migrator) step(progress *MigrationProgress) {
	progress.Processed++
	if m.OnProgress != nil {
		m.OnProgress(progress.Processed, progress.Total)
	}
}
