package sequenceservice

import (
	"context"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/checksum"
	"github.com/starford/vistrack/internal/index"
)

// AddVisibilityTrack appends a visibility track to the sequence at path.
func (s *Service) AddVisibilityTrack(_ context.Context, path string, nt NewTrack) (*TrackDetail, error) {
	mode := s.defaults.Interpolation
	if nt.Interpolation != nil {
		mode = *nt.Interpolation
	}
	propagate := s.defaults.PropagateToChildren
	if nt.PropagateToChildren != nil {
		propagate = *nt.PropagateToChildren
	}

	var out *TrackDetail
	data, err := s.update(path, func(seq *animation.Sequence) error {
		v, err := animation.NewVisibilityAnimation(nt.Name,
			animation.WithCurveInterpMode(mode),
			animation.WithPropagateToChildren(propagate))
		if err != nil {
			return err
		}
		if err := seq.AddTrack(v); err != nil {
			return err
		}
		out = trackDetail(seq, seq.TracksCount()-1, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Checksum = checksum.Sum(data)
	return out, nil
}

// RemoveTrack removes the track at position track. Later tracks shift down.
func (s *Service) RemoveTrack(_ context.Context, path string, track int) (*SequenceDetail, error) {
	var out *SequenceDetail
	data, err := s.update(path, func(seq *animation.Sequence) error {
		if _, err := seq.RemoveTrack(track); err != nil {
			return err
		}
		out = buildDetail(path, nil, seq)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Content = string(data)
	out.Checksum = checksum.Sum(data)
	return out, nil
}

// ListFrames returns the visibility track at position track with its frames.
func (s *Service) ListFrames(_ context.Context, path string, track int) (*TrackDetail, error) {
	var out *TrackDetail
	err := s.view(path, func(seq *animation.Sequence, sum string) error {
		v, err := seq.VisibilityTrack(track)
		if err != nil {
			return err
		}
		out = trackDetail(seq, track, v)
		out.Checksum = sum
		return nil
	})
	return out, err
}

// AddFrame appends a keyframe to a visibility track.
func (s *Service) AddFrame(_ context.Context, path string, track, frameNumber int, visible bool) (*FrameResult, error) {
	var out *FrameResult
	data, err := s.update(path, func(seq *animation.Sequence) error {
		v, err := seq.VisibilityTrack(track)
		if err != nil {
			return err
		}
		v.AddFrame(frameNumber, visible)
		out = &FrameResult{
			Frame: Frame{Index: v.FramesCount() - 1, FrameNumber: frameNumber, Visible: visible},
			Track: track,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Checksum = checksum.Sum(data)
	return out, nil
}

// GetFrame returns the keyframe at index within a visibility track.
func (s *Service) GetFrame(_ context.Context, path string, track, frame int) (*Frame, error) {
	var out *Frame
	err := s.view(path, func(seq *animation.Sequence, _ string) error {
		v, err := seq.VisibilityTrack(track)
		if err != nil {
			return err
		}
		f, err := v.Frame(frame)
		if err != nil {
			return err
		}
		out = &Frame{Index: frame, FrameNumber: f.FrameNumber, Visible: f.Visible}
		return nil
	})
	return out, err
}

// RemoveFrame removes the keyframe at index. Later frames shift down.
func (s *Service) RemoveFrame(_ context.Context, path string, track, frame int) (*TrackDetail, error) {
	return s.updateTrack(path, track, func(v *animation.VisibilityAnimation) error {
		return v.RemoveFrame(frame)
	})
}

// SetCurveInterpMode changes the interpolation mode of a track.
func (s *Service) SetCurveInterpMode(_ context.Context, path string, track int, mode animation.CurveInterpMode) (*TrackDetail, error) {
	return s.updateTrack(path, track, func(v *animation.VisibilityAnimation) error {
		return v.SetCurveInterpMode(mode)
	})
}

// SetPropagateToChildren changes whether a track's visibility applies to
// the children of the animated actor.
func (s *Service) SetPropagateToChildren(_ context.Context, path string, track int, propagate bool) (*TrackDetail, error) {
	return s.updateTrack(path, track, func(v *animation.VisibilityAnimation) error {
		v.SetPropagateToChildren(propagate)
		return nil
	})
}

func (s *Service) updateTrack(path string, track int, fn func(*animation.VisibilityAnimation) error) (*TrackDetail, error) {
	var out *TrackDetail
	data, err := s.update(path, func(seq *animation.Sequence) error {
		v, err := seq.VisibilityTrack(track)
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
		out = trackDetail(seq, track, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Checksum = checksum.Sum(data)
	return out, nil
}

func trackDetail(seq *animation.Sequence, position int, v *animation.VisibilityAnimation) *TrackDetail {
	frames := v.Frames()
	out := &TrackDetail{
		TrackSummary: index.Summarize(seq)[position],
		Frames:       make([]Frame, len(frames)),
	}
	for i, f := range frames {
		out.Frames[i] = Frame{Index: i, FrameNumber: f.FrameNumber, Visible: f.Visible}
	}
	return out
}
