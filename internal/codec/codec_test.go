package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/apperr"
)

func TestDecode_Document(t *testing.T) {
	input := []byte(`name: Shot010
frame_rate: 24
tracks:
  - kind: visibility
    name: VisTrack
    interpolation: Constant
    propagate_to_children: false
    frames:
      - frame: 0
        visible: true
      - frame: 10
        visible: false
      - frame: 10
        visible: true
`)
	seq, err := Decode(input)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if seq.Name() != "Shot010" || seq.FrameRate() != 24 {
		t.Errorf("sequence = %q @ %v", seq.Name(), seq.FrameRate())
	}
	v, err := seq.VisibilityTrack(0)
	if err != nil {
		t.Fatalf("VisibilityTrack: %v", err)
	}
	if v.Name() != "VisTrack" || v.CurveInterpMode() != animation.CurveInterpConstant || v.PropagateToChildren() {
		t.Errorf("track = %+v", v.Snapshot().Identity)
	}
	if v.FramesCount() != 3 {
		t.Fatalf("frames = %d, want 3", v.FramesCount())
	}
	if f, _ := v.Frame(2); f != (animation.VisibilityFrame{FrameNumber: 10, Visible: true}) {
		t.Errorf("Frame(2) = %+v", f)
	}
}

func TestDecode_Defaults(t *testing.T) {
	seq, err := Decode([]byte("name: s\ntracks:\n  - kind: visibility\n    name: v\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if seq.FrameRate() != animation.DefaultFrameRate {
		t.Errorf("frame rate = %v", seq.FrameRate())
	}
	v, _ := seq.VisibilityTrack(0)
	if v.CurveInterpMode() != animation.CurveInterpLinear {
		t.Errorf("mode = %s, want Linear", v.CurveInterpMode())
	}
	if !v.PropagateToChildren() {
		t.Error("propagate should default to true")
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not yaml", ": : {{{"},
		{"missing name", "tracks: []\n"},
		{"negative fps", "name: s\nframe_rate: -1\n"},
		{"unknown kind", "name: s\ntracks:\n  - kind: transform\n    name: t\n"},
		{"unknown mode", "name: s\ntracks:\n  - kind: visibility\n    name: t\n    interpolation: Bezier\n"},
		{"unnamed track", "name: s\ntracks:\n  - kind: visibility\n"},
		{"unknown field", "name: s\ncolor: red\n"},
		{"trailing document", "name: A\ntracks: []\n---\nbogus_field: 1\n"},
		{"trailing garbage", "name: A\ntracks: []\n---\n: : [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestDecode_LeadingDocumentMarker(t *testing.T) {
	seq, err := Decode([]byte("---\nname: A\ntracks: []\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if seq.Name() != "A" {
		t.Errorf("name = %q", seq.Name())
	}
}

func TestEncodeDecode_PreservesOrder(t *testing.T) {
	seq, _ := animation.NewSequence("round", animation.WithFrameRate(60))
	a, _ := animation.NewVisibilityAnimation("a", animation.WithCurveInterpMode(animation.CurveInterpCubic))
	a.AddFrame(30, false)
	a.AddFrame(-2, true)
	a.AddFrame(30, true)
	b, _ := animation.NewVisibilityAnimation("b", animation.WithPropagateToChildren(false))
	_ = seq.AddTrack(a)
	_ = seq.AddTrack(b)

	data, err := Encode(seq)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "interpolation: Cubic") {
		t.Errorf("encoded document missing mode name:\n%s", data)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name() != "round" || got.FrameRate() != 60 || got.TracksCount() != 2 {
		t.Fatalf("sequence = %q @ %v with %d tracks", got.Name(), got.FrameRate(), got.TracksCount())
	}
	ga, _ := got.VisibilityTrack(0)
	gb, _ := got.VisibilityTrack(1)
	if ga.CurveInterpMode() != animation.CurveInterpCubic || gb.PropagateToChildren() {
		t.Errorf("track state lost: %+v %+v", ga.Snapshot().Identity, gb.Snapshot())
	}
	want := a.Frames()
	frames := ga.Frames()
	if len(frames) != len(want) {
		t.Fatalf("frames = %v, want %v", frames, want)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, frames[i], want[i])
		}
	}
}

func TestEncode_Released(t *testing.T) {
	seq, _ := animation.NewSequence("gone")
	seq.Release()
	if _, err := Encode(seq); !errors.Is(err, apperr.ErrReleased) {
		t.Errorf("err = %v, want ErrReleased", err)
	}
}
