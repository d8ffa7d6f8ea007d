package store

// Schema v1 - Initial database schema
//
// Cover art lives in two representations per row: an inline BLOB (the legacy
// form) and a path pointer to a file under the covers tree. The two columns
// drift independently; the covers package owns reconciling them.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Library tracks
CREATE TABLE IF NOT EXISTS tracks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  path TEXT UNIQUE NOT NULL,
  title TEXT,
  artist TEXT,
  album TEXT,
  duration_ms INTEGER,
  cover BLOB,
  cover_path TEXT,
  added_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album);
CREATE INDEX IF NOT EXISTS idx_tracks_cover_path ON tracks(cover_path);

-- Albums (grouping by name; tracks link via their album text field)
CREATE TABLE IF NOT EXISTS albums (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL,
  artist TEXT,
  art_data BLOB,
  art_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_albums_art_path ON albums(art_path);
`
