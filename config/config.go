// Package config loads the viewer configuration from a YAML file with
// CAMPUSMAP_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/milk9111/campusmap/viewer"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "CAMPUSMAP_"

type Window struct {
	Width  int    `koanf:"width" yaml:"width"`
	Height int    `koanf:"height" yaml:"height"`
	Title  string `koanf:"title" yaml:"title"`
}

// ProfileOverrides replaces individual fields of the selected viewer profile.
// A nil field keeps the profile's value, so an explicit zero can be set.
type ProfileOverrides struct {
	MinScale       *float64 `koanf:"min_scale" yaml:"min_scale,omitempty"`
	MaxScale       *float64 `koanf:"max_scale" yaml:"max_scale,omitempty"`
	ZoomStep       *float64 `koanf:"zoom_step" yaml:"zoom_step,omitempty"`
	WheelStep      *float64 `koanf:"wheel_step" yaml:"wheel_step,omitempty"`
	PinchStep      *float64 `koanf:"pinch_step" yaml:"pinch_step,omitempty"`
	PinchThreshold *float64 `koanf:"pinch_threshold" yaml:"pinch_threshold,omitempty"`
}

func (o ProfileOverrides) apply(p viewer.Profile) viewer.Profile {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.MinScale, o.MinScale)
	set(&p.MaxScale, o.MaxScale)
	set(&p.ZoomStep, o.ZoomStep)
	set(&p.WheelStep, o.WheelStep)
	set(&p.PinchStep, o.PinchStep)
	set(&p.PinchThreshold, o.PinchThreshold)
	return p
}

type Config struct {
	// AssetsDir holds the map images named in the floor table.
	AssetsDir string `koanf:"assets_dir" yaml:"assets_dir"`
	// FloorsFile overrides the built-in floor table when set.
	FloorsFile string `koanf:"floors_file" yaml:"floors_file,omitempty"`
	// Profile selects a built-in viewer profile ("campus" or "compact").
	Profile string `koanf:"profile" yaml:"profile"`
	// ProfileOverrides replaces individual fields of the selected profile.
	ProfileOverrides ProfileOverrides `koanf:"profile_overrides" yaml:"profile_overrides,omitempty"`
	// VisitsDB is the SQLite file for the visitor counter; empty disables it.
	VisitsDB       string `koanf:"visits_db" yaml:"visits_db"`
	WatchAssets    bool   `koanf:"watch_assets" yaml:"watch_assets"`
	SettleMS       int    `koanf:"settle_ms" yaml:"settle_ms"`
	PreloadWorkers int    `koanf:"preload_workers" yaml:"preload_workers"`
	Window         Window `koanf:"window" yaml:"window"`
}

func DefaultConfig() *Config {
	return &Config{
		AssetsDir:      "maps",
		Profile:        viewer.ProfileCampus,
		VisitsDB:       "data/visits.db",
		WatchAssets:    false,
		SettleMS:       100,
		PreloadWorkers: 4,
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "Campus Map",
		},
	}
}

// Load reads configuration from path (if it exists) over the defaults, then
// applies environment overrides such as CAMPUSMAP_ASSETS_DIR or
// CAMPUSMAP_WINDOW__WIDTH.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: accessing %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshalling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// ViewerProfile resolves the named profile and applies overrides.
func (c *Config) ViewerProfile() (viewer.Profile, error) {
	p, ok := viewer.ProfileByName(c.Profile)
	if !ok {
		return viewer.Profile{}, fmt.Errorf("config: unknown profile %q", c.Profile)
	}
	return c.ProfileOverrides.apply(p), nil
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.AssetsDir == "" {
		return fmt.Errorf("assets_dir is required")
	}
	p, err := c.ViewerProfile()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if c.SettleMS < 0 {
		return fmt.Errorf("settle_ms must be non-negative")
	}
	if c.PreloadWorkers < 0 {
		return fmt.Errorf("preload_workers must be non-negative")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
