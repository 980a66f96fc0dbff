package internal

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/vistrack/internal/animation"
	pkgconfig "github.com/starford/vistrack/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	d := cfg.Animation.Defaults()
	if d.Interpolation != animation.CurveInterpLinear || !d.PropagateToChildren || d.FrameRate != 30 {
		t.Errorf("defaults = %+v", d)
	}
}

func TestAnimationConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  AnimationConfig
	}{
		{"unknown mode", AnimationConfig{Interpolation: animation.CurveInterpMode(5), FrameRate: 30}},
		{"zero fps", AnimationConfig{Interpolation: animation.CurveInterpCubic}},
		{"negative fps", AnimationConfig{FrameRate: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_DecodeYAML(t *testing.T) {
	cfg := NewDefaultConfig()
	err := pkgconfig.Decode([]byte(`
app:
  log_level: debug
  http:
    port: 9090
store:
  path: /srv/sequences
sqlite:
  path: /srv/vistrack.db
animation:
  interpolation: Constant
  propagate_to_children: false
  frame_rate: 24
`), cfg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Store.Path != "/srv/sequences" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Animation.Interpolation != animation.CurveInterpConstant || cfg.Animation.PropagateToChildren || cfg.Animation.FrameRate != 24 {
		t.Errorf("animation = %+v", cfg.Animation)
	}
	if cfg.Auth.Mode != AuthModeDisabled {
		t.Errorf("auth mode = %q", cfg.Auth.Mode)
	}
}

func TestConfig_DecodeRejectsUnknownMode(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Decode([]byte("animation:\n  interpolation: Bezier\n"), cfg); err == nil {
		t.Error("expected error for unknown interpolation name")
	}
}
