package posture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SquatThresholds struct {
	// KneeToeMargin is how far, in normalized units, a knee may pass its
	// ankle on the x axis.
	KneeToeMargin float64 `yaml:"knee_toe_margin" json:"knee_toe_margin"`
	// BackAngleMin is the smallest acceptable angle at the shoulder between
	// the hip and the vertical reference.
	BackAngleMin float64 `yaml:"back_angle_min" json:"back_angle_min"`
	// DepthAngleMax is the largest knee angle still counted as deep enough.
	DepthAngleMax float64 `yaml:"depth_angle_max" json:"depth_angle_max"`
	// KneeCaveRatio is the minimum knee width as a fraction of hip width.
	KneeCaveRatio  float64 `yaml:"knee_cave_ratio" json:"knee_cave_ratio"`
	VerticalOffset float64 `yaml:"vertical_offset" json:"vertical_offset"`
}

type DeskThresholds struct {
	NeckAngleMax     float64 `yaml:"neck_angle_max" json:"neck_angle_max"`
	ShoulderSlopeMax float64 `yaml:"shoulder_slope_max" json:"shoulder_slope_max"`
	BackAngleMax     float64 `yaml:"back_angle_max" json:"back_angle_max"`
	HeadDropMargin   float64 `yaml:"head_drop_margin" json:"head_drop_margin"`
	VerticalOffset   float64 `yaml:"vertical_offset" json:"vertical_offset"`
}

type Thresholds struct {
	Squat SquatThresholds `yaml:"squat" json:"squat"`
	Desk  DeskThresholds  `yaml:"desk" json:"desk"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Squat: SquatThresholds{
			KneeToeMargin:  0.05,
			BackAngleMin:   150,
			DepthAngleMax:  120,
			KneeCaveRatio:  0.8,
			VerticalOffset: 0.1,
		},
		Desk: DeskThresholds{
			NeckAngleMax:     30,
			ShoulderSlopeMax: 0.05,
			BackAngleMax:     20,
			HeadDropMargin:   0.05,
			VerticalOffset:   0.1,
		},
	}
}

// LoadThresholds reads a YAML file on top of the defaults, so a file only
// needs the keys it changes. An empty path returns the defaults.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read thresholds file: %w", err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}

	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}

	return t, nil
}

func (t Thresholds) Validate() error {
	// margins and slopes may be 0, which flags any deviation at all
	checks := []struct {
		name   string
		value  float64
		max    float64
		zeroOK bool
	}{
		{"squat.knee_toe_margin", t.Squat.KneeToeMargin, 1, true},
		{"squat.back_angle_min", t.Squat.BackAngleMin, 180, false},
		{"squat.depth_angle_max", t.Squat.DepthAngleMax, 180, false},
		{"squat.knee_cave_ratio", t.Squat.KneeCaveRatio, 1, false},
		{"squat.vertical_offset", t.Squat.VerticalOffset, 1, false},
		{"desk.neck_angle_max", t.Desk.NeckAngleMax, 180, false},
		{"desk.shoulder_slope_max", t.Desk.ShoulderSlopeMax, 1, true},
		{"desk.back_angle_max", t.Desk.BackAngleMax, 180, false},
		{"desk.head_drop_margin", t.Desk.HeadDropMargin, 1, true},
		{"desk.vertical_offset", t.Desk.VerticalOffset, 1, false},
	}

	for _, c := range checks {
		if c.zeroOK {
			if c.value < 0 || c.value > c.max {
				return fmt.Errorf("%w: %s must be in [0, %g], got %g", ErrInvalidThresholds, c.name, c.max, c.value)
			}
			continue
		}
		if c.value <= 0 || c.value > c.max {
			return fmt.Errorf("%w: %s must be in (0, %g], got %g", ErrInvalidThresholds, c.name, c.max, c.value)
		}
	}

	return nil
}
