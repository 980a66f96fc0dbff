package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/sequenceservice"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	Animation AnimationConfig   `yaml:"animation"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Animation.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds the root directory of sequence documents.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite catalog configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// AnimationConfig holds the defaults applied to new sequences and tracks.
type AnimationConfig struct {
	Interpolation       animation.CurveInterpMode `yaml:"interpolation"`
	PropagateToChildren bool                      `yaml:"propagate_to_children"`
	FrameRate           float64                   `yaml:"frame_rate"`
}

// Validate validates the animation defaults.
func (c *AnimationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interpolation, validation.By(func(any) error {
			if !c.Interpolation.Valid() {
				return fmt.Errorf("unknown mode %d", uint8(c.Interpolation))
			}
			return nil
		})),
		validation.Field(&c.FrameRate, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// Defaults converts the section into service creation defaults.
func (c *AnimationConfig) Defaults() sequenceservice.Defaults {
	return sequenceservice.Defaults{
		Interpolation:       c.Interpolation,
		PropagateToChildren: c.PropagateToChildren,
		FrameRate:           c.FrameRate,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Path: "./sequences",
		},
		SQLite: SQLiteConfig{
			Path: "./vistrack.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Animation: AnimationConfig{
			Interpolation:       animation.DefaultCurveInterpMode,
			PropagateToChildren: animation.DefaultPropagateToChildren,
			FrameRate:           animation.DefaultFrameRate,
		},
	}
}
