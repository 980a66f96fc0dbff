package index

import (
	"log/slog"
	"time"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/checksum"
	"github.com/starford/vistrack/internal/codec"
	"github.com/starford/vistrack/internal/models"
	"github.com/starford/vistrack/internal/storage"
)

// Sync walks the store and brings the catalog up to date:
//   - new/changed documents are decoded and upserted
//   - documents removed from disk are deleted from the catalog
func Sync(db Catalog, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexDocument(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteSequence(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexDocument decodes data and upserts the sequence it describes.
func IndexDocument(db Catalog, path string, data []byte) error {
	seq, err := codec.Decode(data)
	if err != nil {
		return err
	}
	defer seq.Release()
	return IndexSequence(db, path, data, seq)
}

// IndexSequence upserts seq, whose encoded form is data.
func IndexSequence(db Catalog, path string, data []byte, seq *animation.Sequence) error {
	row := SequenceRow{
		Path:      path,
		Name:      seq.Name(),
		FrameRate: seq.FrameRate(),
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}
	return db.UpsertSequence(row, Summarize(seq))
}

// Summarize returns the catalog view of every track of seq.
func Summarize(seq *animation.Sequence) []models.TrackSummary {
	tracks := seq.Tracks()
	out := make([]models.TrackSummary, len(tracks))
	for i, t := range tracks {
		s := models.TrackSummary{
			Position:      i,
			Name:          t.Name(),
			Kind:          string(t.Kind()),
			Interpolation: t.CurveInterpMode().String(),
		}
		if v, ok := t.(*animation.VisibilityAnimation); ok {
			s.PropagateToChildren = v.PropagateToChildren()
			s.FrameCount = v.FramesCount()
			if frames := v.Frames(); len(frames) > 0 {
				lo, hi := frames[0].FrameNumber, frames[0].FrameNumber
				for _, f := range frames[1:] {
					lo = min(lo, f.FrameNumber)
					hi = max(hi, f.FrameNumber)
				}
				s.MinFrame, s.MaxFrame = &lo, &hi
			}
		}
		out[i] = s
	}
	return out
}
