//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS tracks_fts USING fts5(
			path UNINDEXED,
			position UNINDEXED,
			sequence,
			track,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, path string, position int, sequence, track string) error {
	_, err := tx.Exec(`INSERT INTO tracks_fts (path, position, sequence, track) VALUES (?, ?, ?, ?)`,
		path, position, sequence, track)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM tracks_fts WHERE path = ?`, path)
}

// SearchTracks performs an FTS5 search over track and sequence names.
func (db *DB) SearchTracks(query string, limit int) ([]TrackHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.path, f.sequence, f.position, f.track, t.kind
		FROM tracks_fts f
		JOIN tracks t ON t.path = f.path AND t.position = f.position
		WHERE tracks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []TrackHit
	for rows.Next() {
		var h TrackHit
		if err := rows.Scan(&h.Path, &h.Sequence, &h.Position, &h.Track, &h.Kind); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ftsQuery turns free text into a prefix match on every term, quoting each
// term so FTS5 operators in user input are taken literally.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"*`
	}
	return strings.Join(terms, " ")
}
