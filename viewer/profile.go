package viewer

import "fmt"

// Profile holds the zoom limits and step sizes a Controller works with.
type Profile struct {
	Name string `yaml:"name" koanf:"name"`
	// MinScale is also the neutral "home" scale; panning is disabled there.
	MinScale float64 `yaml:"min_scale" koanf:"min_scale"`
	MaxScale float64 `yaml:"max_scale" koanf:"max_scale"`
	// ZoomStep is applied by the zoom buttons.
	ZoomStep float64 `yaml:"zoom_step" koanf:"zoom_step"`
	// WheelStep is applied once per wheel event, regardless of delta size.
	WheelStep float64 `yaml:"wheel_step" koanf:"wheel_step"`
	// PinchStep is applied once per pinch sample that crosses PinchThreshold.
	PinchStep float64 `yaml:"pinch_step" koanf:"pinch_step"`
	// PinchThreshold is the distance change in pixels a pinch sample must
	// exceed before it zooms.
	PinchThreshold float64 `yaml:"pinch_threshold" koanf:"pinch_threshold"`
}

const (
	ProfileCampus  = "campus"
	ProfileCompact = "compact"
)

// CampusProfile is the default: 100%..300% with 20% button steps.
func CampusProfile() Profile {
	return Profile{
		Name:           ProfileCampus,
		MinScale:       1.0,
		MaxScale:       3.0,
		ZoomStep:       0.2,
		WheelStep:      0.2,
		PinchStep:      0.05,
		PinchThreshold: 0,
	}
}

// CompactProfile allows zooming out below natural size and filters pinch jitter.
func CompactProfile() Profile {
	return Profile{
		Name:           ProfileCompact,
		MinScale:       0.5,
		MaxScale:       2.5,
		ZoomStep:       0.2,
		WheelStep:      0.1,
		PinchStep:      0.05,
		PinchThreshold: 2,
	}
}

// ProfileByName returns one of the built-in profiles.
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case "", ProfileCampus:
		return CampusProfile(), true
	case ProfileCompact:
		return CompactProfile(), true
	default:
		return Profile{}, false
	}
}

func (p Profile) Validate() error {
	if p.MinScale <= 0 {
		return fmt.Errorf("viewer: min_scale must be positive, got %v", p.MinScale)
	}
	if p.MaxScale < p.MinScale {
		return fmt.Errorf("viewer: max_scale %v is below min_scale %v", p.MaxScale, p.MinScale)
	}
	if p.ZoomStep <= 0 || p.WheelStep <= 0 || p.PinchStep <= 0 {
		return fmt.Errorf("viewer: zoom, wheel and pinch steps must be positive")
	}
	if p.PinchThreshold < 0 {
		return fmt.Errorf("viewer: pinch_threshold must be non-negative, got %v", p.PinchThreshold)
	}
	return nil
}
