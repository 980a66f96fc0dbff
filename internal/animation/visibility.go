package animation

import (
	"fmt"

	"github.com/starford/vistrack/internal/apperr"
)

// DefaultPropagateToChildren is the propagation flag of a new visibility
// track: hiding a node hides its descendants.
const DefaultPropagateToChildren = true

// VisibilityFrame is the visibility of a node at one frame.
type VisibilityFrame struct {
	FrameNumber int
	Visible     bool
}

// VisibilityAnimation is an ordered list of visibility keyframes.
//
// Frames are kept in insertion order and that order is the index space:
// no sorting, no merging of equal frame numbers. Removing a frame shifts
// every later frame down by one index.
type VisibilityAnimation struct {
	BaseAnimation
	frames              []VisibilityFrame
	propagateToChildren bool
}

// VisibilitySnapshot is the complete exported state of a visibility track.
type VisibilitySnapshot struct {
	Identity
	Frames              []VisibilityFrame
	PropagateToChildren bool
}

// NewVisibilityAnimation creates an empty visibility track.
func NewVisibilityAnimation(name string, opts ...Option) (*VisibilityAnimation, error) {
	o := defaultTrackOptions()
	for _, opt := range opts {
		opt(&o)
	}
	base, err := newBaseAnimation(name, o.interpMode)
	if err != nil {
		return nil, err
	}
	return &VisibilityAnimation{
		BaseAnimation:       base,
		propagateToChildren: o.propagate,
	}, nil
}

// NewVisibilityAnimationFromSnapshot rebuilds a track from its exported
// state, frames in the same order.
func NewVisibilityAnimationFromSnapshot(s VisibilitySnapshot) (*VisibilityAnimation, error) {
	v, err := NewVisibilityAnimation(s.Name,
		WithCurveInterpMode(s.CurveInterpMode),
		WithPropagateToChildren(s.PropagateToChildren),
	)
	if err != nil {
		return nil, err
	}
	v.frames = append(make([]VisibilityFrame, 0, len(s.Frames)), s.Frames...)
	return v, nil
}

// Kind implements Track.
func (v *VisibilityAnimation) Kind() Kind {
	return KindVisibility
}

// AddFrame appends a keyframe. Its index is FramesCount()-1 afterwards.
func (v *VisibilityAnimation) AddFrame(frameNumber int, visible bool) {
	v.frames = append(v.frames, VisibilityFrame{FrameNumber: frameNumber, Visible: visible})
}

// FramesCount returns the number of stored keyframes.
func (v *VisibilityAnimation) FramesCount() int {
	return len(v.frames)
}

// Frame returns the keyframe at index.
func (v *VisibilityAnimation) Frame(index int) (VisibilityFrame, error) {
	if err := v.checkIndex(index); err != nil {
		return VisibilityFrame{}, err
	}
	return v.frames[index], nil
}

// RemoveFrame deletes the keyframe at index. Indices captured before the
// call are stale for every frame at or after index.
func (v *VisibilityAnimation) RemoveFrame(index int) error {
	if err := v.checkIndex(index); err != nil {
		return err
	}
	copy(v.frames[index:], v.frames[index+1:])
	v.frames[len(v.frames)-1] = VisibilityFrame{}
	v.frames = v.frames[:len(v.frames)-1]
	return nil
}

// Frames returns a copy of the keyframes in index order.
func (v *VisibilityAnimation) Frames() []VisibilityFrame {
	out := make([]VisibilityFrame, len(v.frames))
	copy(out, v.frames)
	return out
}

// SetPropagateToChildren sets whether the track also drives descendants.
func (v *VisibilityAnimation) SetPropagateToChildren(propagate bool) {
	v.propagateToChildren = propagate
}

// PropagateToChildren reports whether the track also drives descendants.
func (v *VisibilityAnimation) PropagateToChildren() bool {
	return v.propagateToChildren
}

// Snapshot returns a self-contained copy of the track state.
func (v *VisibilityAnimation) Snapshot() VisibilitySnapshot {
	return VisibilitySnapshot{
		Identity:            v.Identity(),
		Frames:              v.Frames(),
		PropagateToChildren: v.propagateToChildren,
	}
}

func (v *VisibilityAnimation) checkIndex(index int) error {
	if index < 0 || index >= len(v.frames) {
		return fmt.Errorf("animation: %s: frame index %d not in [0,%d): %w",
			v.name, index, len(v.frames), apperr.ErrIndexOutOfRange)
	}
	return nil
}
