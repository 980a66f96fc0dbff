// Package sequenceservice owns sequence documents on behalf of the
// transports. Each operation loads a document, mutates the decoded
// sequence, writes it back and refreshes the catalog while holding the
// service lock.
package sequenceservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/apperr"
	"github.com/starford/vistrack/internal/checksum"
	"github.com/starford/vistrack/internal/codec"
	"github.com/starford/vistrack/internal/index"
	"github.com/starford/vistrack/internal/models"
	"github.com/starford/vistrack/internal/storage"
)

// SequenceDetail is the full representation of a sequence document.
type SequenceDetail struct {
	Path      string                `json:"path"`
	Name      string                `json:"name"`
	FrameRate float64               `json:"frame_rate"`
	Content   string                `json:"content"`
	Checksum  string                `json:"checksum"`
	Tracks    []models.TrackSummary `json:"tracks"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// SequenceListItem is a lightweight item in a list response.
type SequenceListItem struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	FrameRate  float64   `json:"frame_rate"`
	Checksum   string    `json:"checksum"`
	TrackCount int       `json:"track_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CatalogEntry is a catalogued sequence together with its track summaries.
type CatalogEntry struct {
	SequenceListItem
	Tracks []models.TrackSummary `json:"tracks"`
}

// Frame is one visibility keyframe together with its index in the track.
type Frame struct {
	Index       int  `json:"index"`
	FrameNumber int  `json:"frame"`
	Visible     bool `json:"visible"`
}

// TrackDetail is a track summary with its frames and the checksum of the
// document it was read from.
type TrackDetail struct {
	models.TrackSummary
	Frames   []Frame `json:"frames"`
	Checksum string  `json:"checksum"`
}

// FrameResult is returned by AddFrame.
type FrameResult struct {
	Frame
	Track    int    `json:"track"`
	Checksum string `json:"checksum"`
}

// NewTrack describes a visibility track to append. Nil fields take the
// service defaults.
type NewTrack struct {
	Name                string
	Interpolation       *animation.CurveInterpMode
	PropagateToChildren *bool
}

// Defaults are applied to sequences and tracks created by the service.
type Defaults struct {
	Interpolation       animation.CurveInterpMode
	PropagateToChildren bool
	FrameRate           float64
}

// Option configures a Service.
type Option func(*Service)

// WithDefaults overrides the creation defaults.
func WithDefaults(d Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// Service coordinates storage and catalog operations.
type Service struct {
	store    storage.Provider
	db       index.Catalog
	defaults Defaults

	mu sync.Mutex
}

// NewService creates a new sequence service.
func NewService(store storage.Provider, db index.Catalog, opts ...Option) *Service {
	s := &Service{
		store: store,
		db:    db,
		defaults: Defaults{
			Interpolation:       animation.DefaultCurveInterpMode,
			PropagateToChildren: animation.DefaultPropagateToChildren,
			FrameRate:           animation.DefaultFrameRate,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSequence writes a new, empty sequence document.
func (s *Service) CreateSequence(_ context.Context, path, name string, frameRate float64) (*SequenceDetail, error) {
	if err := checkDocumentPath(path); err != nil {
		return nil, err
	}
	if frameRate == 0 {
		frameRate = s.defaults.FrameRate
	}
	seq, err := animation.NewSequence(name, animation.WithFrameRate(frameRate))
	if err != nil {
		return nil, err
	}
	defer seq.Release()
	data, err := codec.Encode(seq)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.create(path, data, seq); err != nil {
		return nil, err
	}
	return buildDetail(path, data, seq), nil
}

// ImportDocument writes a new sequence from a complete document.
func (s *Service) ImportDocument(_ context.Context, path string, content []byte) (*SequenceDetail, error) {
	if err := checkDocumentPath(path); err != nil {
		return nil, err
	}
	seq, err := codec.Decode(content)
	if err != nil {
		return nil, err
	}
	defer seq.Release()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.create(path, content, seq); err != nil {
		return nil, err
	}
	return buildDetail(path, content, seq), nil
}

// GetSequence reads and decodes a sequence document.
func (s *Service) GetSequence(_ context.Context, path string) (*SequenceDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, seq, err := s.load(path)
	if err != nil {
		return nil, err
	}
	defer seq.Release()
	return buildDetail(path, data, seq), nil
}

// PutDocument replaces an existing document. A non-empty ifMatch must equal
// the checksum of the stored document.
func (s *Service) PutDocument(_ context.Context, path string, content []byte, ifMatch string) (*SequenceDetail, error) {
	seq, err := codec.Decode(content)
	if err != nil {
		return nil, err
	}
	defer seq.Release()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(path)
	if err != nil {
		return nil, err
	}
	if !checksum.Matches(existing, ifMatch) {
		return nil, fmt.Errorf("sequenceservice: %s changed: %w", path, apperr.ErrConflict)
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := index.IndexSequence(s.db, path, content, seq); err != nil {
		return nil, err
	}
	return buildDetail(path, content, seq), nil
}

// DeleteSequence removes a document from storage and catalog.
func (s *Service) DeleteSequence(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("sequenceservice: %s: %w", path, apperr.ErrNotFound)
		}
		return err
	}
	return s.db.DeleteSequence(path)
}

// ListSequences returns one page of catalogued sequences.
func (s *Service) ListSequences(_ context.Context, limit, offset int, sort string) ([]SequenceListItem, int, error) {
	rows, total, err := s.db.ListSequences(limit, offset, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]SequenceListItem, len(rows))
	for i, r := range rows {
		items[i] = listItem(r)
	}
	return items, total, nil
}

// ListTracks returns the catalogued summary of the sequence at path and its
// tracks. It reads only the catalog, so it reflects the last indexed state
// of the document.
func (s *Service) ListTracks(_ context.Context, path string) (*CatalogEntry, error) {
	if err := checkDocumentPath(path); err != nil {
		return nil, err
	}
	row, err := s.db.GetSequence(path)
	if err != nil {
		return nil, err
	}
	tracks, err := s.db.Tracks(path)
	if err != nil {
		return nil, err
	}
	return &CatalogEntry{SequenceListItem: listItem(*row), Tracks: nonNilSlice(tracks)}, nil
}

// SearchTracks matches query against track and sequence names.
func (s *Service) SearchTracks(_ context.Context, query string, limit int) ([]index.TrackHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("sequenceservice: empty query: %w", apperr.ErrInvalidArgument)
	}
	hits, err := s.db.SearchTracks(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(hits), nil
}

// IndexFile decodes data and upserts it into the catalog.
func (s *Service) IndexFile(path string, data []byte) error {
	return index.IndexDocument(s.db, path, data)
}

// create writes a document that must not exist yet. Caller holds s.mu.
func (s *Service) create(path string, data []byte, seq *animation.Sequence) error {
	if _, err := s.store.Read(path); err == nil {
		return fmt.Errorf("sequenceservice: %s: %w", path, apperr.ErrAlreadyExists)
	}
	if err := s.store.Write(path, data); err != nil {
		return err
	}
	return index.IndexSequence(s.db, path, data, seq)
}

// read returns the raw document at path. Caller holds s.mu.
func (s *Service) read(path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("sequenceservice: %s: %w", path, apperr.ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// load reads and decodes the document at path. The caller releases the
// returned sequence and holds s.mu.
func (s *Service) load(path string) ([]byte, *animation.Sequence, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, nil, err
	}
	seq, err := codec.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("sequenceservice: %s: %w", path, err)
	}
	return data, seq, nil
}

// update runs fn against the decoded document and persists the result when
// fn succeeds. It returns the written document.
func (s *Service) update(path string, fn func(seq *animation.Sequence) error) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, seq, err := s.load(path)
	if err != nil {
		return nil, err
	}
	defer seq.Release()

	if err := fn(seq); err != nil {
		return nil, err
	}
	data, err := codec.Encode(seq)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(path, data); err != nil {
		return nil, err
	}
	if err := index.IndexSequence(s.db, path, data, seq); err != nil {
		return nil, err
	}
	return data, nil
}

// view runs fn against the decoded document without writing it back.
func (s *Service) view(path string, fn func(seq *animation.Sequence, sum string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, seq, err := s.load(path)
	if err != nil {
		return err
	}
	defer seq.Release()
	return fn(seq, checksum.Sum(data))
}

func buildDetail(path string, data []byte, seq *animation.Sequence) *SequenceDetail {
	return &SequenceDetail{
		Path:      path,
		Name:      seq.Name(),
		FrameRate: seq.FrameRate(),
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		Tracks:    nonNilSlice(index.Summarize(seq)),
		UpdatedAt: time.Now(),
	}
}

func listItem(r index.SequenceRow) SequenceListItem {
	return SequenceListItem{
		Path:       r.Path,
		Name:       r.Name,
		FrameRate:  r.FrameRate,
		Checksum:   r.Checksum,
		TrackCount: r.TrackCount,
		UpdatedAt:  r.UpdatedAt,
	}
}

func checkDocumentPath(path string) error {
	if !storage.IsDocument(path) {
		return fmt.Errorf("sequenceservice: %q is not a %s document: %w", path, codec.Ext, apperr.ErrInvalidArgument)
	}
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
