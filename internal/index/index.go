package index

import "github.com/starford/vistrack/internal/models"

// Catalog is the set of catalog operations the service layer, sync and
// watcher depend on.
type Catalog interface {
	UpsertSequence(s SequenceRow, tracks []models.TrackSummary) error
	DeleteSequence(path string) error
	GetChecksum(path string) (string, error)
	GetSequence(path string) (*SequenceRow, error)
	ListSequences(limit, offset int, sort string) ([]SequenceRow, int, error)
	Tracks(path string) ([]models.TrackSummary, error)
	SearchTracks(query string, limit int) ([]TrackHit, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
