package posture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadThresholdsEmptyPath(t *testing.T) {
	got, err := LoadThresholds("")
	if err != nil {
		t.Fatalf("LoadThresholds() error = %v", err)
	}
	if got != DefaultThresholds() {
		t.Fatalf("LoadThresholds(\"\") = %+v", got)
	}
}

func TestLoadThresholdsOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := "squat:\n  back_angle_min: 140\ndesk:\n  neck_angle_max: 45\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("LoadThresholds() error = %v", err)
	}

	if got.Squat.BackAngleMin != 140 || got.Desk.NeckAngleMax != 45 {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.Squat.KneeToeMargin != 0.05 || got.Desk.BackAngleMax != 20 {
		t.Fatalf("defaults lost: %+v", got)
	}
}

func TestLoadThresholdsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte("desk:\n  shoulder_slope_max: -1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadThresholds(path); !errors.Is(err, ErrInvalidThresholds) {
		t.Fatalf("expected ErrInvalidThresholds, got %v", err)
	}

	if _, err := LoadThresholds(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestValidateThresholdBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Thresholds)
		wantErr bool
	}{
		{"defaults", func(*Thresholds) {}, false},
		{"zero shoulder slope", func(th *Thresholds) { th.Desk.ShoulderSlopeMax = 0 }, false},
		{"zero knee margin", func(th *Thresholds) { th.Squat.KneeToeMargin = 0 }, false},
		{"zero head drop", func(th *Thresholds) { th.Desk.HeadDropMargin = 0 }, false},
		{"negative knee margin", func(th *Thresholds) { th.Squat.KneeToeMargin = -0.01 }, true},
		{"zero back angle", func(th *Thresholds) { th.Squat.BackAngleMin = 0 }, true},
		{"zero vertical offset", func(th *Thresholds) { th.Desk.VerticalOffset = 0 }, true},
		{"ratio above one", func(th *Thresholds) { th.Squat.KneeCaveRatio = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.mutate(&th)

			err := th.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidThresholds) {
				t.Fatalf("expected ErrInvalidThresholds, got %v", err)
			}
		})
	}
}

func TestZeroShoulderSlopeFlagsAnyTilt(t *testing.T) {
	th := DefaultThresholds()
	th.Desk.ShoulderSlopeMax = 0

	ev, err := NewEvaluator(th)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	set := uprightDesk()
	set[RightShoulder] = Landmark{X: set[RightShoulder].X, Y: set[RightShoulder].Y + 0.001}

	got, err := ev.Evaluate(set, ActivityDesk)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if countIssue(got.Issues, IssueShouldersUneven) != 1 {
		t.Fatalf("issues = %q, want shoulders flagged", got.Issues)
	}
}
