// Package index provides the SQLite catalog of sequence documents and their
// tracks, with optional FTS5 search over track names.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS sequences (
	path        TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	frame_rate  REAL NOT NULL DEFAULT 30,
	checksum    TEXT NOT NULL DEFAULT '',
	track_count INTEGER NOT NULL DEFAULT 0,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tracks (
	path          TEXT NOT NULL REFERENCES sequences(path) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	name          TEXT NOT NULL,
	kind          TEXT NOT NULL,
	interpolation TEXT NOT NULL,
	propagate     INTEGER NOT NULL DEFAULT 1,
	frame_count   INTEGER NOT NULL DEFAULT 0,
	min_frame     INTEGER,
	max_frame     INTEGER,
	PRIMARY KEY (path, position)
);

CREATE INDEX IF NOT EXISTS idx_tracks_name ON tracks(name);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
