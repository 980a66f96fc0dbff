// Package animation implements the keyframe track model attached to scene
// nodes: the shared base animation state and the boolean visibility track.
//
// Tracks do no locking of their own. A track belongs to exactly one owner
// (usually a Sequence) and that owner serializes access to it.
package animation

import (
	"fmt"

	"github.com/starford/vistrack/internal/apperr"
)

// Kind tags the concrete type behind a Track.
type Kind string

const (
	KindVisibility Kind = "visibility"
)

// Kinds returns every track kind this package can build.
func Kinds() []Kind {
	return []Kind{KindVisibility}
}

// Track is the capability every animation track kind provides. The set of
// implementations is closed: exporters switch on Kind or on the concrete
// type.
type Track interface {
	Name() string
	Kind() Kind
	CurveInterpMode() CurveInterpMode
	SetCurveInterpMode(mode CurveInterpMode) error

	base() *BaseAnimation
}

// BaseAnimation carries the identity and interpolation state shared by
// every track kind.
type BaseAnimation struct {
	name       string
	interpMode CurveInterpMode
	owned      bool
}

// Identity is the exported view of a track's base state.
type Identity struct {
	Name            string
	CurveInterpMode CurveInterpMode
}

func newBaseAnimation(name string, mode CurveInterpMode) (BaseAnimation, error) {
	if name == "" {
		return BaseAnimation{}, fmt.Errorf("animation: track name is required: %w", apperr.ErrInvalidArgument)
	}
	if !mode.Valid() {
		return BaseAnimation{}, fmt.Errorf("animation: %s: %w", mode, apperr.ErrInvalidArgument)
	}
	return BaseAnimation{name: name, interpMode: mode}, nil
}

// Name returns the name given at construction.
func (b *BaseAnimation) Name() string {
	return b.name
}

// CurveInterpMode returns the stored interpolation mode.
func (b *BaseAnimation) CurveInterpMode() CurveInterpMode {
	return b.interpMode
}

// SetCurveInterpMode stores mode. Values outside the enumeration are
// rejected and leave the track unchanged.
func (b *BaseAnimation) SetCurveInterpMode(mode CurveInterpMode) error {
	if !mode.Valid() {
		return fmt.Errorf("animation: %s: %w", mode, apperr.ErrInvalidArgument)
	}
	b.interpMode = mode
	return nil
}

// Identity returns the (name, mode) pair exporters write out.
func (b *BaseAnimation) Identity() Identity {
	return Identity{Name: b.name, CurveInterpMode: b.interpMode}
}

func (b *BaseAnimation) base() *BaseAnimation {
	return b
}

// Option configures a track at construction.
type Option func(*trackOptions)

type trackOptions struct {
	interpMode CurveInterpMode
	propagate  bool
}

func defaultTrackOptions() trackOptions {
	return trackOptions{
		interpMode: DefaultCurveInterpMode,
		propagate:  DefaultPropagateToChildren,
	}
}

// WithCurveInterpMode overrides the initial interpolation mode.
func WithCurveInterpMode(mode CurveInterpMode) Option {
	return func(o *trackOptions) {
		o.interpMode = mode
	}
}

// WithPropagateToChildren overrides the initial propagation flag of a
// visibility track.
func WithPropagateToChildren(propagate bool) Option {
	return func(o *trackOptions) {
		o.propagate = propagate
	}
}
