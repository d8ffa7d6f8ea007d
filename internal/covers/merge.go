package covers

import (
	"database/sql"
	"fmt"
	"os"
	"sort"

	"github.com/SmileofHaven/Audion-Changes/internal/report"
	"github.com/SmileofHaven/Audion-Changes/internal/store"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// MergeResult reports the outcome of a duplicate-cover merge run
type MergeResult struct {
	CoversMerged    int
	SpaceSavedBytes int64
	AlbumsProcessed int
	Errors          []string
}

// Merger collapses byte-identical cover files referenced by different tracks
// of the same album to one canonical file
type Merger struct {
	store   *store.Store
	storage *Storage
	logger  *report.EventLogger
}

// NewMerger creates a new Merger
func NewMerger(st *store.Store, storage *Storage, logger *report.EventLogger) *Merger {
	return &Merger{
		store:   st,
		storage: storage,
		logger:  logger,
	}
}

// Run merges duplicate covers per distinct album name. Hashing is restricted
// to size buckets with at least two members, so only files that could
// plausibly match pay the hashing cost.
func (m *Merger) Run() (*MergeResult, error) {
	util.InfoLog("Starting duplicate cover merge")

	albums, err := m.store.DistinctAlbums()
	if err != nil {
		return nil, fmt.Errorf("failed to select albums: %w", err)
	}

	result := &MergeResult{Errors: make([]string, 0)}

	util.InfoLog("Found %d albums to process", len(albums))

	for _, album := range albums {
		result.AlbumsProcessed++
		m.mergeAlbum(album, result)
	}

	util.SuccessLog("Merge complete: %d covers merged, %d bytes saved, %d albums, %d errors",
		result.CoversMerged, result.SpaceSavedBytes, result.AlbumsProcessed, len(result.Errors))

	return result, nil
}

func (m *Merger) mergeAlbum(album string, result *MergeResult) {
	refs, err := m.store.TrackCoversByAlbum(album)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("album %q: %v", album, err))
		return
	}

	if len(refs) < 2 {
		return
	}

	// Group referencing tracks by exact path string
	pathToTracks := make(map[string][]int64)
	for _, r := range refs {
		pathToTracks[r.CoverPath] = append(pathToTracks[r.CoverPath], r.TrackID)
	}

	if len(pathToTracks) < 2 {
		// Already fully shared
		return
	}

	util.DebugLog("Album %q: %d tracks over %d distinct cover files",
		album, len(refs), len(pathToTracks))

	// Stat every distinct path; a path that cannot be stat'd cannot be
	// hashed and drops out of consideration
	cands := make([]candidate, 0, len(pathToTracks))
	for path := range pathToTracks {
		info, err := os.Stat(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to stat %s: %v", path, err))
			continue
		}
		cands = append(cands, candidate{path: path, size: info.Size()})
	}

	// Hash only within size buckets holding 2+ files, then group by digest
	groups := make(map[string][]candidate)
	for _, bucket := range bucketBySize(cands) {
		if len(bucket) < 2 {
			continue
		}
		for _, c := range bucket {
			hash, err := HashFile(c.path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to hash %s: %v", c.path, err))
				continue
			}
			groups[hash] = append(groups[hash], c)
		}
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		// The lexicographically smallest path is canonical, so repeated
		// runs converge on the same survivor
		sort.Slice(group, func(i, j int) bool { return group[i].path < group[j].path })
		canonical := group[0].path

		var updates []store.CoverRef
		var deletions []candidate
		for _, dup := range group[1:] {
			for _, trackID := range pathToTracks[dup.path] {
				updates = append(updates, store.CoverRef{TrackID: trackID, CoverPath: canonical})
			}
			deletions = append(deletions, dup)
		}

		err := m.store.Transaction(func(tx *sql.Tx) error {
			for _, u := range updates {
				if _, err := tx.Exec(
					"UPDATE tracks SET cover_path = ? WHERE id = ?",
					u.CoverPath, u.TrackID,
				); err != nil {
					result.Errors = append(result.Errors,
						fmt.Sprintf("failed to update track %d: %v", u.TrackID, err))
				}
			}
			return nil
		})
		if err != nil {
			// Never delete files whose store references were not
			// confirmed rewritten
			result.Errors = append(result.Errors,
				fmt.Sprintf("album %q: failed to commit merge: %v", album, err))
			continue
		}

		util.DebugLog("Album %q: repointed %d tracks to %s", album, len(updates), canonical)

		var saved int64
		for _, dup := range deletions {
			deleted, err := m.storage.DeleteFile(dup.path)
			switch {
			case err != nil:
				result.Errors = append(result.Errors, err.Error())
				m.logger.LogDelete(dup.path, 0, err)
			case deleted:
				result.CoversMerged++
				result.SpaceSavedBytes += dup.size
				saved += dup.size
				m.logger.LogDelete(dup.path, dup.size, nil)
			default:
				// Already removed by an earlier partial run
				util.DebugLog("Already deleted: %s", dup.path)
			}
		}

		m.logger.LogMerge(album, canonical, len(group), saved)
	}
}
