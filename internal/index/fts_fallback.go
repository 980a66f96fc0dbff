//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; SearchTracks uses LIKE on the catalog tables.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ string, _ int, _, _ string) error {
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// likeEscaper makes LIKE wildcards in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchTracks matches query against track and sequence names (LIKE
// fallback when FTS5 is not compiled in).
func (db *DB) SearchTracks(query string, limit int) ([]TrackHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT t.path, s.name, t.position, t.name, t.kind
		FROM tracks t
		JOIN sequences s ON s.path = t.path
		WHERE t.name LIKE ? ESCAPE '\' OR s.name LIKE ? ESCAPE '\'
		ORDER BY t.path, t.position
		LIMIT ?
	`, like, like, limit)
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
