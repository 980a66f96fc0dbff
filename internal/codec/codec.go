// Package codec converts sequences to and from their YAML document form.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/apperr"
)

// Ext is the file extension of sequence documents.
const Ext = ".yaml"

// Document is the on-disk form of a sequence.
type Document struct {
	Name      string          `yaml:"name"`
	FrameRate float64         `yaml:"frame_rate,omitempty"`
	Tracks    []TrackDocument `yaml:"tracks"`
}

// TrackDocument is one track inside a Document. Frames keep their order.
type TrackDocument struct {
	Kind                string          `yaml:"kind"`
	Name                string          `yaml:"name"`
	Interpolation       string          `yaml:"interpolation,omitempty"`
	PropagateToChildren *bool           `yaml:"propagate_to_children,omitempty"`
	Frames              []FrameDocument `yaml:"frames"`
}

// FrameDocument is one visibility keyframe.
type FrameDocument struct {
	Frame   int  `yaml:"frame"`
	Visible bool `yaml:"visible"`
}

// Validate validates the document.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.FrameRate, validation.Min(0.0).Exclusive()),
		validation.Field(&d.Tracks),
	)
}

// Validate validates a single track entry.
func (t TrackDocument) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Kind, validation.Required, validation.In(kindNames()...)),
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Interpolation, validation.In(modeNames()...)),
	)
}

// Encode renders seq as a YAML document, tracks and frames in index order.
func Encode(seq *animation.Sequence) ([]byte, error) {
	doc, err := FromSequence(seq)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("codec: encode %s: %w", seq.Name(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: encode %s: %w", seq.Name(), err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a YAML document and builds the sequence it
// describes. Every failure wraps apperr.ErrInvalidArgument.
func Decode(data []byte) (*animation.Sequence, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("codec: empty document: %w", apperr.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("codec: parse: %v: %w", err, apperr.ErrInvalidArgument)
	}
	// A sequence file holds exactly one YAML document.
	if err := dec.Decode(new(yaml.Node)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("codec: trailing content after document: %w", apperr.ErrInvalidArgument)
	}
	return doc.Sequence()
}

// FromSequence captures seq as a Document.
func FromSequence(seq *animation.Sequence) (*Document, error) {
	if seq.Released() {
		return nil, fmt.Errorf("codec: sequence %q: %w", seq.Name(), apperr.ErrReleased)
	}
	doc := &Document{
		Name:      seq.Name(),
		FrameRate: seq.FrameRate(),
		Tracks:    make([]TrackDocument, 0, seq.TracksCount()),
	}
	for _, t := range seq.Tracks() {
		switch v := t.(type) {
		case *animation.VisibilityAnimation:
			doc.Tracks = append(doc.Tracks, visibilityDocument(v.Snapshot()))
		default:
			return nil, fmt.Errorf("codec: track %q has unsupported kind %s: %w", t.Name(), t.Kind(), apperr.ErrInvalidArgument)
		}
	}
	return doc, nil
}

// Sequence validates d and builds a new sequence from it.
func (d *Document) Sequence() (*animation.Sequence, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("codec: %v: %w", err, apperr.ErrInvalidArgument)
	}
	fps := d.FrameRate
	if fps == 0 {
		fps = animation.DefaultFrameRate
	}
	seq, err := animation.NewSequence(d.Name, animation.WithFrameRate(fps))
	if err != nil {
		return nil, err
	}
	for i, td := range d.Tracks {
		t, err := td.track()
		if err != nil {
			seq.Release()
			return nil, fmt.Errorf("codec: track %d: %w", i, err)
		}
		if err := seq.AddTrack(t); err != nil {
			seq.Release()
			return nil, err
		}
	}
	return seq, nil
}

func (t TrackDocument) track() (animation.Track, error) {
	mode := animation.DefaultCurveInterpMode
	if t.Interpolation != "" {
		m, err := animation.ParseCurveInterpMode(t.Interpolation)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	propagate := animation.DefaultPropagateToChildren
	if t.PropagateToChildren != nil {
		propagate = *t.PropagateToChildren
	}

	switch animation.Kind(t.Kind) {
	case animation.KindVisibility:
		frames := make([]animation.VisibilityFrame, len(t.Frames))
		for i, f := range t.Frames {
			frames[i] = animation.VisibilityFrame{FrameNumber: f.Frame, Visible: f.Visible}
		}
		return animation.NewVisibilityAnimationFromSnapshot(animation.VisibilitySnapshot{
			Identity:            animation.Identity{Name: t.Name, CurveInterpMode: mode},
			Frames:              frames,
			PropagateToChildren: propagate,
		})
	default:
		return nil, fmt.Errorf("unknown track kind %q: %w", t.Kind, apperr.ErrInvalidArgument)
	}
}

func visibilityDocument(s animation.VisibilitySnapshot) TrackDocument {
	propagate := s.PropagateToChildren
	frames := make([]FrameDocument, len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = FrameDocument{Frame: f.FrameNumber, Visible: f.Visible}
	}
	return TrackDocument{
		Kind:                string(animation.KindVisibility),
		Name:                s.Name,
		Interpolation:       s.CurveInterpMode.String(),
		PropagateToChildren: &propagate,
		Frames:              frames,
	}
}

func kindNames() []interface{} {
	kinds := animation.Kinds()
	out := make([]interface{}, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func modeNames() []interface{} {
	modes := animation.CurveInterpModes()
	out := make([]interface{}, len(modes))
	for i, m := range modes {
		out[i] = m.String()
	}
	return out
}
