package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/vistrack/internal/apperr"
	"github.com/starford/vistrack/internal/models"
)

// SequenceRow represents a row in the sequences table.
type SequenceRow struct {
	Path       string
	Name       string
	FrameRate  float64
	Checksum   string
	TrackCount int
	UpdatedAt  time.Time
}

// TrackHit is one track matched by SearchTracks.
type TrackHit struct {
	Path     string `json:"path"`
	Sequence string `json:"sequence"`
	Position int    `json:"position"`
	Track    string `json:"track"`
	Kind     string `json:"kind"`
}

// sortColumns maps the accepted sort keys to ORDER BY clauses.
var sortColumns = map[string]string{
	"":           "updated_at DESC",
	"updated_at": "updated_at DESC",
	"name":       "name ASC",
	"path":       "path ASC",
}

// UpsertSequence replaces a sequence row, its tracks and their FTS entries
// within one transaction.
func (db *DB) UpsertSequence(s SequenceRow, tracks []models.TrackSummary) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	_, err = tx.Exec(`
		INSERT INTO sequences (path, name, frame_rate, checksum, track_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name        = excluded.name,
			frame_rate  = excluded.frame_rate,
			checksum    = excluded.checksum,
			track_count = excluded.track_count,
			updated_at  = excluded.updated_at
	`, s.Path, s.Name, s.FrameRate, s.Checksum, len(tracks), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert sequence: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM tracks WHERE path = ?`, s.Path); err != nil {
		return fmt.Errorf("index: clear tracks: %w", err)
	}
	ftsDelete(tx, s.Path)

	if len(tracks) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO tracks (path, position, name, kind, interpolation, propagate, frame_count, min_frame, max_frame)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare track insert: %w", err)
		}
		defer stmt.Close()
		for _, t := range tracks {
			if _, err := stmt.Exec(s.Path, t.Position, t.Name, t.Kind, t.Interpolation,
				t.PropagateToChildren, t.FrameCount, t.MinFrame, t.MaxFrame); err != nil {
				return fmt.Errorf("index: insert track: %w", err)
			}
			if err := ftsUpsert(tx, s.Path, t.Position, s.Name, t.Name); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// DeleteSequence removes a sequence with its tracks and FTS entries.
func (db *DB) DeleteSequence(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM tracks WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM sequences WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a sequence, or empty string
// if it is not catalogued.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM sequences WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// GetSequence returns one catalogued sequence.
func (db *DB) GetSequence(path string) (*SequenceRow, error) {
	var r SequenceRow
	err := db.conn.QueryRow(`
		SELECT path, name, frame_rate, checksum, track_count, updated_at
		FROM sequences WHERE path = ?`, path).
		Scan(&r.Path, &r.Name, &r.FrameRate, &r.Checksum, &r.TrackCount, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: sequence %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get sequence: %w", err)
	}
	return &r, nil
}

// ListSequences returns one page of sequences and the total count.
func (db *DB) ListSequences(limit, offset int, sort string) ([]SequenceRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	order, ok := sortColumns[sort]
	if !ok {
		return nil, 0, fmt.Errorf("index: unknown sort %q: %w", sort, apperr.ErrInvalidArgument)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM sequences`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count sequences: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, name, frame_rate, checksum, track_count, updated_at
		FROM sequences
		ORDER BY `+order+`
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list sequences: %w", err)
	}
	defer rows.Close()

	var out []SequenceRow
	for rows.Next() {
		var r SequenceRow
		if err := rows.Scan(&r.Path, &r.Name, &r.FrameRate, &r.Checksum, &r.TrackCount, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// Tracks returns the catalogued tracks of a sequence in position order.
func (db *DB) Tracks(path string) ([]models.TrackSummary, error) {
	rows, err := db.conn.Query(`
		SELECT position, name, kind, interpolation, propagate, frame_count, min_frame, max_frame
		FROM tracks WHERE path = ?
		ORDER BY position`, path)
	if err != nil {
		return nil, fmt.Errorf("index: tracks: %w", err)
	}
	defer rows.Close()

	var out []models.TrackSummary
	for rows.Next() {
		var (
			t      models.TrackSummary
			lo, hi sql.NullInt64
		)
		if err := rows.Scan(&t.Position, &t.Name, &t.Kind, &t.Interpolation,
			&t.PropagateToChildren, &t.FrameCount, &lo, &hi); err != nil {
			return nil, err
		}
		t.MinFrame = nullableInt(lo)
		t.MaxFrame = nullableInt(hi)
		out = append(out, t)
	}
	return out, rows.Err()
}

// AllChecksums returns path → checksum for every catalogued sequence.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM sequences`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
