package animation

import (
	"fmt"

	"github.com/starford/vistrack/internal/apperr"
)

// CurveInterpMode selects how a downstream sampler interpolates between
// keyframes. The numeric values and names are part of the interchange
// format and must not be renumbered.
type CurveInterpMode uint8

const (
	CurveInterpLinear CurveInterpMode = iota
	CurveInterpConstant
	CurveInterpCubic
)

// DefaultCurveInterpMode is the mode a track carries until told otherwise.
const DefaultCurveInterpMode = CurveInterpLinear

var curveInterpNames = [...]string{
	CurveInterpLinear:   "Linear",
	CurveInterpConstant: "Constant",
	CurveInterpCubic:    "Cubic",
}

// CurveInterpModes returns every recognized mode in numeric order.
func CurveInterpModes() []CurveInterpMode {
	out := make([]CurveInterpMode, len(curveInterpNames))
	for i := range curveInterpNames {
		out[i] = CurveInterpMode(i)
	}
	return out
}

// Valid reports whether m is a member of the enumeration.
func (m CurveInterpMode) Valid() bool {
	return int(m) < len(curveInterpNames)
}

func (m CurveInterpMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("CurveInterpMode(%d)", uint8(m))
	}
	return curveInterpNames[m]
}

// ParseCurveInterpMode maps a format name ("Linear", "Constant", "Cubic")
// back to its mode.
func ParseCurveInterpMode(s string) (CurveInterpMode, error) {
	for i, name := range curveInterpNames {
		if name == s {
			return CurveInterpMode(i), nil
		}
	}
	return 0, fmt.Errorf("animation: unknown curve interpolation mode %q: %w", s, apperr.ErrInvalidArgument)
}

// MarshalText implements encoding.TextMarshaler.
func (m CurveInterpMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("animation: %s: %w", m, apperr.ErrInvalidArgument)
	}
	return []byte(curveInterpNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CurveInterpMode) UnmarshalText(text []byte) error {
	parsed, err := ParseCurveInterpMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
