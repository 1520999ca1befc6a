package posture

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestLandmarkSetGet(t *testing.T) {
	s := goodSquat()

	got, err := s.Get(LeftKnee)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != pt(0.50, 0.70) {
		t.Fatalf("Get(LeftKnee) = %+v", got)
	}
}

func TestLandmarkSetGetWrongSize(t *testing.T) {
	for _, n := range []int{0, 25, LandmarkCount + 1, 40} {
		s := make(LandmarkSet, n)

		if _, err := s.Get(Nose); !errors.Is(err, ErrMalformedLandmarks) {
			t.Fatalf("len %d: expected ErrMalformedLandmarks, got %v", n, err)
		}
		if err := s.Validate(); !errors.Is(err, ErrMalformedLandmarks) {
			t.Fatalf("len %d: Validate() = %v", n, err)
		}
	}
}

func TestLandmarkSetGetUnknownJoint(t *testing.T) {
	s := emptySet()

	for _, j := range []Joint{-1, LandmarkCount, 100} {
		if _, err := s.Get(j); !errors.Is(err, ErrUnknownJoint) {
			t.Fatalf("Get(%d) expected ErrUnknownJoint, got %v", j, err)
		}
	}
}

func TestJointIndicesAreStable(t *testing.T) {
	cases := map[Joint]int{
		Nose:           0,
		LeftEar:        7,
		LeftShoulder:   11,
		RightShoulder:  12,
		LeftHip:        23,
		RightHip:       24,
		LeftKnee:       25,
		RightKnee:      26,
		LeftAnkle:      27,
		RightAnkle:     28,
		RightFootIndex: 32,
	}
	for j, idx := range cases {
		if int(j) != idx {
			t.Errorf("%s = %d, want %d", j, int(j), idx)
		}
	}
}

func TestParseJoint(t *testing.T) {
	j, err := ParseJoint("left_knee")
	if err != nil {
		t.Fatalf("ParseJoint() error = %v", err)
	}
	if j != LeftKnee {
		t.Fatalf("ParseJoint() = %s, want LEFT_KNEE", j)
	}

	if _, err := ParseJoint("LEFT_ANTENNA"); !errors.Is(err, ErrUnknownJoint) {
		t.Fatalf("expected ErrUnknownJoint, got %v", err)
	}
}

func TestLandmarkJSON(t *testing.T) {
	data, err := json.Marshal(Landmark{X: 0.5, Y: 0.25, Z: -0.1})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "[0.5,0.25,-0.1]" {
		t.Fatalf("Marshal() = %s", data)
	}

	var lm Landmark
	if err := json.Unmarshal([]byte("[0.1, 0.2]"), &lm); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if lm != pt(0.1, 0.2) {
		t.Fatalf("Unmarshal() = %+v", lm)
	}

	if err := json.Unmarshal([]byte("[0.1]"), &lm); err == nil {
		t.Fatal("expected error for a single component landmark")
	}
	if err := json.Unmarshal([]byte(`{"x":1}`), &lm); err == nil {
		t.Fatal("expected error for an object landmark")
	}
}
