package store

import (
	"database/sql"
	"fmt"
)

// InsertAlbum inserts or updates an album record keyed by name
func (s *Store) InsertAlbum(a *Album) error {
	return s.locked(func(db *sql.DB) error {
		result, err := db.Exec(`
			INSERT INTO albums (name, artist, art_data)
			VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				artist = excluded.artist,
				art_data = COALESCE(albums.art_data, excluded.art_data)
			`, a.Name, a.Artist, a.ArtData)

		if err != nil {
			return fmt.Errorf("failed to insert album: %w", err)
		}

		if a.ID == 0 {
			if id, err := result.LastInsertId(); err == nil && id != 0 {
				a.ID = id
			}
			if a.ID == 0 {
				err = db.QueryRow("SELECT id FROM albums WHERE name = ?", a.Name).Scan(&a.ID)
				if err != nil {
					return fmt.Errorf("failed to get album ID: %w", err)
				}
			}
		}

		return nil
	})
}

// GetAlbumByID retrieves an album by its ID
func (s *Store) GetAlbumByID(id int64) (*Album, error) {
	a := &Album{}
	err := s.locked(func(db *sql.DB) error {
		return db.QueryRow(`
			SELECT id, name, COALESCE(artist, ''), art_data, COALESCE(art_path, '')
			FROM albums WHERE id = ?
		`, id).Scan(&a.ID, &a.Name, &a.Artist, &a.ArtData, &a.ArtPath)
	})

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	return a, nil
}

// AlbumsNeedingMigration returns albums still carrying inline art but no art
// path
func (s *Store) AlbumsNeedingMigration() ([]*InlineCover, error) {
	var covers []*InlineCover
	err := s.locked(func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT id, art_data FROM albums
			WHERE art_data IS NOT NULL AND art_path IS NULL
			ORDER BY id
		`)
		if err != nil {
			return fmt.Errorf("failed to query albums: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			c := &InlineCover{}
			if err := rows.Scan(&c.ID, &c.Data); err != nil {
				return fmt.Errorf("failed to scan album art: %w", err)
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

// UpdateAlbumArtPath sets the art path for an album
func (s *Store) UpdateAlbumArtPath(albumID int64, artPath string) error {
	return s.locked(func(db *sql.DB) error {
		_, err := db.Exec(`
			UPDATE albums SET art_path = ? WHERE id = ?
		`, artPath, albumID)

		if err != nil {
			return fmt.Errorf("failed to update album art path: %w", err)
		}

		return nil
	})
}

// AllAlbumArtPaths returns every distinct non-empty art path referenced by
// any album
func (s *Store) AllAlbumArtPaths() ([]string, error) {
	return s.stringColumn(`
		SELECT DISTINCT art_path FROM albums
		WHERE art_path IS NOT NULL AND art_path != ''
	`)
}
