package store

import (
	"database/sql"
	"fmt"
)

// InsertTrack inserts or updates a track record keyed by its library path
func (s *Store) InsertTrack(t *Track) error {
	return s.locked(func(db *sql.DB) error {
		result, err := db.Exec(`
			INSERT INTO tracks (path, title, artist, album, cover)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				title = excluded.title,
				artist = excluded.artist,
				album = excluded.album,
				cover = COALESCE(excluded.cover, tracks.cover)
			`, t.Path, t.Title, t.Artist, t.Album, t.Cover)

		if err != nil {
			return fmt.Errorf("failed to insert track: %w", err)
		}

		if t.ID == 0 {
			if id, err := result.LastInsertId(); err == nil && id != 0 {
				t.ID = id
			}
			// On conflict update, fetch the existing ID
			if t.ID == 0 {
				err = db.QueryRow("SELECT id FROM tracks WHERE path = ?", t.Path).Scan(&t.ID)
				if err != nil {
					return fmt.Errorf("failed to get track ID: %w", err)
				}
			}
		}

		return nil
	})
}

// GetTrackByID retrieves a track by its ID
func (s *Store) GetTrackByID(id int64) (*Track, error) {
	t := &Track{}
	err := s.locked(func(db *sql.DB) error {
		return db.QueryRow(`
			SELECT id, path, COALESCE(title, ''), COALESCE(artist, ''),
			       COALESCE(album, ''), cover, COALESCE(cover_path, ''), added_at
			FROM tracks WHERE id = ?
		`, id).Scan(
			&t.ID, &t.Path, &t.Title, &t.Artist,
			&t.Album, &t.Cover, &t.CoverPath, &t.AddedAt,
		)
	})

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	return t, nil
}

// TracksNeedingMigration returns tracks still carrying an inline cover but no
// cover path. Rows that already have a path are excluded, which is what makes
// re-running the migration after a partial failure retry only the remainder.
func (s *Store) TracksNeedingMigration() ([]*InlineCover, error) {
	var covers []*InlineCover
	err := s.locked(func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT id, cover FROM tracks
			WHERE cover IS NOT NULL AND cover_path IS NULL
			ORDER BY id
		`)
		if err != nil {
			return fmt.Errorf("failed to query tracks: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			c := &InlineCover{}
			if err := rows.Scan(&c.ID, &c.Data); err != nil {
				return fmt.Errorf("failed to scan track cover: %w", err)
			}
			covers = append(covers, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return covers, nil
}

// UpdateTrackCoverPath sets the cover path for a track
func (s *Store) UpdateTrackCoverPath(trackID int64, coverPath string) error {
	return s.locked(func(db *sql.DB) error {
		_, err := db.Exec(`
			UPDATE tracks SET cover_path = ? WHERE id = ?
		`, coverPath, trackID)

		if err != nil {
			return fmt.Errorf("failed to update track cover path: %w", err)
		}

		return nil
	})
}

// DistinctAlbums returns every distinct non-empty album name with at least
// one track
func (s *Store) DistinctAlbums() ([]string, error) {
	var albums []string
	err := s.locked(func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT DISTINCT album FROM tracks
			WHERE album IS NOT NULL AND album != ''
			ORDER BY album
		`)
		if err != nil {
			return fmt.Errorf("failed to query albums: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("failed to scan album name: %w", err)
			}
			albums = append(albums, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return albums, nil
}

// TrackCoversByAlbum returns the tracks of one album that carry a non-empty
// cover path
func (s *Store) TrackCoversByAlbum(album string) ([]*CoverRef, error) {
	var refs []*CoverRef
	err := s.locked(func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT id, cover_path FROM tracks
			WHERE album = ? AND cover_path IS NOT NULL AND cover_path != ''
			ORDER BY id
		`, album)
		if err != nil {
			return fmt.Errorf("failed to query album tracks: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			r := &CoverRef{}
			if err := rows.Scan(&r.TrackID, &r.CoverPath); err != nil {
				return fmt.Errorf("failed to scan cover ref: %w", err)
			}
			refs = append(refs, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// AllTrackCoverPaths returns every distinct non-empty cover path referenced
// by any track
func (s *Store) AllTrackCoverPaths() ([]string, error) {
	return s.stringColumn(`
		SELECT DISTINCT cover_path FROM tracks
		WHERE cover_path IS NOT NULL AND cover_path != ''
	`)
}

// TrackStateCounts tallies tracks by cover representation state
func (s *Store) TrackStateCounts() (*StateCounts, error) {
	return s.stateCounts("tracks", "cover", "cover_path")
}

// AlbumStateCounts tallies albums by art representation state
func (s *Store) AlbumStateCounts() (*StateCounts, error) {
	return s.stateCounts("albums", "art_data", "art_path")
}

func (s *Store) stateCounts(table, blobCol, pathCol string) (*StateCounts, error) {
	c := &StateCounts{}
	err := s.locked(func(db *sql.DB) error {
		query := fmt.Sprintf(`
			SELECT
				SUM(CASE WHEN %[2]s IS NOT NULL AND (%[3]s IS NULL OR %[3]s = '') THEN 1 ELSE 0 END),
				SUM(CASE WHEN %[2]s IS NULL AND %[3]s IS NOT NULL AND %[3]s != '' THEN 1 ELSE 0 END),
				SUM(CASE WHEN %[2]s IS NOT NULL AND %[3]s IS NOT NULL AND %[3]s != '' THEN 1 ELSE 0 END),
				SUM(CASE WHEN %[2]s IS NULL AND (%[3]s IS NULL OR %[3]s = '') THEN 1 ELSE 0 END)
			FROM %[1]s
		`, table, blobCol, pathCol)

		var inlineOnly, pathOnly, both, neither sql.NullInt64
		if err := db.QueryRow(query).Scan(&inlineOnly, &pathOnly, &both, &neither); err != nil {
			return fmt.Errorf("failed to count %s states: %w", table, err)
		}
		c.InlineOnly = int(inlineOnly.Int64)
		c.PathOnly = int(pathOnly.Int64)
		c.Both = int(both.Int64)
		c.Neither = int(neither.Int64)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) stringColumn(query string, args ...interface{}) ([]string, error) {
	var values []string
	err := s.locked(func(db *sql.DB) error {
		rows, err := db.Query(query, args...)
		if err != nil {
			return fmt.Errorf("failed to query: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return fmt.Errorf("failed to scan: %w", err)
			}
			values = append(values, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// ClearMigratedInline nulls the inline payload on every track and album that
// already carries a path pointer. Destructive; intended to run only after
// verifying migration or sync success. Both updates run in one transaction.
func (s *Store) ClearMigratedInline() (int64, error) {
	var cleared int64
	err := s.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE tracks SET cover = NULL
			WHERE cover_path IS NOT NULL AND cover IS NOT NULL
		`)
		if err != nil {
			return fmt.Errorf("failed to clear track covers: %w", err)
		}
		n, _ := res.RowsAffected()
		cleared += n

		res, err = tx.Exec(`
			UPDATE albums SET art_data = NULL
			WHERE art_path IS NOT NULL AND art_data IS NOT NULL
		`)
		if err != nil {
			return fmt.Errorf("failed to clear album art: %w", err)
		}
		n, _ = res.RowsAffected()
		cleared += n

		return nil
	})
	if err != nil {
		return 0, err
	}
	return cleared, nil
}
