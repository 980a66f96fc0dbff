package animation

import (
	"fmt"

	"github.com/starford/vistrack/internal/apperr"
)

// DefaultFrameRate is the frame rate of a sequence built without
// WithFrameRate, in frames per second.
const DefaultFrameRate = 30.0

// Sequence is the exclusive owner of a set of tracks, in the order they
// were added. A track can belong to one sequence at a time.
//
// Release ends the sequence. It is safe to call more than once; only the
// first call detaches the tracks. Every other method fails with
// apperr.ErrReleased afterwards.
type Sequence struct {
	name      string
	frameRate float64
	tracks    []Track
	released  bool
}

// SequenceOption configures a Sequence at construction.
type SequenceOption func(*Sequence)

// WithFrameRate sets the initial frame rate.
func WithFrameRate(fps float64) SequenceOption {
	return func(s *Sequence) {
		s.frameRate = fps
	}
}

// NewSequence creates an empty sequence.
func NewSequence(name string, opts ...SequenceOption) (*Sequence, error) {
	if name == "" {
		return nil, fmt.Errorf("animation: sequence name is required: %w", apperr.ErrInvalidArgument)
	}
	s := &Sequence{name: name, frameRate: DefaultFrameRate}
	for _, opt := range opts {
		opt(s)
	}
	if !(s.frameRate > 0) {
		return nil, fmt.Errorf("animation: frame rate %v must be positive: %w", s.frameRate, apperr.ErrInvalidArgument)
	}
	return s, nil
}

// Name returns the sequence name.
func (s *Sequence) Name() string {
	return s.name
}

// FrameRate returns the frame rate in frames per second.
func (s *Sequence) FrameRate() float64 {
	return s.frameRate
}

// SetFrameRate changes the frame rate. fps must be positive.
func (s *Sequence) SetFrameRate(fps float64) error {
	if s.released {
		return s.errReleased()
	}
	if !(fps > 0) {
		return fmt.Errorf("animation: frame rate %v must be positive: %w", fps, apperr.ErrInvalidArgument)
	}
	s.frameRate = fps
	return nil
}

// AddTrack appends t and takes ownership of it.
func (s *Sequence) AddTrack(t Track) error {
	if s.released {
		return s.errReleased()
	}
	if t == nil {
		return fmt.Errorf("animation: nil track: %w", apperr.ErrInvalidArgument)
	}
	b := t.base()
	if b.owned {
		return fmt.Errorf("animation: track %q already belongs to a sequence: %w", b.name, apperr.ErrAlreadyExists)
	}
	b.owned = true
	s.tracks = append(s.tracks, t)
	return nil
}

// TracksCount returns the number of owned tracks. A released sequence has
// none.
func (s *Sequence) TracksCount() int {
	return len(s.tracks)
}

// Track returns the track at index.
func (s *Sequence) Track(index int) (Track, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	return s.tracks[index], nil
}

// VisibilityTrack returns the track at index as a visibility track.
func (s *Sequence) VisibilityTrack(index int) (*VisibilityAnimation, error) {
	t, err := s.Track(index)
	if err != nil {
		return nil, err
	}
	v, ok := t.(*VisibilityAnimation)
	if !ok {
		return nil, fmt.Errorf("animation: track %d is %s, not %s: %w", index, t.Kind(), KindVisibility, apperr.ErrInvalidArgument)
	}
	return v, nil
}

// Tracks returns the owned tracks in index order.
func (s *Sequence) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// RemoveTrack detaches the track at index and returns it. Later tracks
// shift down by one index.
func (s *Sequence) RemoveTrack(index int) (Track, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	t := s.tracks[index]
	copy(s.tracks[index:], s.tracks[index+1:])
	s.tracks[len(s.tracks)-1] = nil
	s.tracks = s.tracks[:len(s.tracks)-1]
	t.base().owned = false
	return t, nil
}

// Release detaches every track and ends the sequence. It reports whether
// this call did the release.
func (s *Sequence) Release() bool {
	if s.released {
		return false
	}
	s.released = true
	for i, t := range s.tracks {
		t.base().owned = false
		s.tracks[i] = nil
	}
	s.tracks = nil
	return true
}

// Released reports whether Release has been called.
func (s *Sequence) Released() bool {
	return s.released
}

func (s *Sequence) checkIndex(index int) error {
	if s.released {
		return s.errReleased()
	}
	if index < 0 || index >= len(s.tracks) {
		return fmt.Errorf("animation: %s: track index %d not in [0,%d): %w",
			s.name, index, len(s.tracks), apperr.ErrIndexOutOfRange)
	}
	return nil
}

func (s *Sequence) errReleased() error {
	return fmt.Errorf("animation: sequence %q: %w", s.name, apperr.ErrReleased)
}
