package animation

import (
	"errors"
	"testing"

	"github.com/starford/vistrack/internal/apperr"
)

func TestCurveInterpMode_Names(t *testing.T) {
	tests := []struct {
		mode CurveInterpMode
		name string
		num  uint8
	}{
		{CurveInterpLinear, "Linear", 0},
		{CurveInterpConstant, "Constant", 1},
		{CurveInterpCubic, "Cubic", 2},
	}
	for _, tt := range tests {
		if uint8(tt.mode) != tt.num {
			t.Errorf("%s = %d, want %d", tt.name, uint8(tt.mode), tt.num)
		}
		if tt.mode.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.mode.String(), tt.name)
		}
		parsed, err := ParseCurveInterpMode(tt.name)
		if err != nil || parsed != tt.mode {
			t.Errorf("Parse(%q) = %v, %v", tt.name, parsed, err)
		}
	}
}

func TestParseCurveInterpMode_Unknown(t *testing.T) {
	for _, s := range []string{"", "linear", "Bezier"} {
		if _, err := ParseCurveInterpMode(s); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("Parse(%q) err = %v", s, err)
		}
	}
}

func TestCurveInterpMode_Text(t *testing.T) {
	var m CurveInterpMode
	if err := m.UnmarshalText([]byte("Cubic")); err != nil {
		t.Fatal(err)
	}
	if m != CurveInterpCubic {
		t.Errorf("mode = %s", m)
	}
	if _, err := CurveInterpMode(9).MarshalText(); err == nil {
		t.Error("expected error marshaling unknown mode")
	}
	if got := CurveInterpMode(9).String(); got != "CurveInterpMode(9)" {
		t.Errorf("String() = %q", got)
	}
}
