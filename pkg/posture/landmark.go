package posture

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LandmarkCount is the number of keypoints produced by the BlazePose body
// model.
const LandmarkCount = 33

type Landmark struct {
	X float64
	Y float64
	Z float64
}

func (l Landmark) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{l.X, l.Y, l.Z})
}

func (l *Landmark) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("landmark must be an [x, y, z] array: %w", err)
	}
	if len(raw) < 2 || len(raw) > 3 {
		return fmt.Errorf("landmark must have 2 or 3 components, got %d", len(raw))
	}

	l.X, l.Y = raw[0], raw[1]
	if len(raw) == 3 {
		l.Z = raw[2]
	}
	return nil
}

type Joint int

// Joint indices follow the MediaPipe BlazePose numbering. Nothing outside
// this file depends on the numeric values.
const (
	Nose Joint = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

var jointNames = [LandmarkCount]string{
	"NOSE",
	"LEFT_EYE_INNER",
	"LEFT_EYE",
	"LEFT_EYE_OUTER",
	"RIGHT_EYE_INNER",
	"RIGHT_EYE",
	"RIGHT_EYE_OUTER",
	"LEFT_EAR",
	"RIGHT_EAR",
	"MOUTH_LEFT",
	"MOUTH_RIGHT",
	"LEFT_SHOULDER",
	"RIGHT_SHOULDER",
	"LEFT_ELBOW",
	"RIGHT_ELBOW",
	"LEFT_WRIST",
	"RIGHT_WRIST",
	"LEFT_PINKY",
	"RIGHT_PINKY",
	"LEFT_INDEX",
	"RIGHT_INDEX",
	"LEFT_THUMB",
	"RIGHT_THUMB",
	"LEFT_HIP",
	"RIGHT_HIP",
	"LEFT_KNEE",
	"RIGHT_KNEE",
	"LEFT_ANKLE",
	"RIGHT_ANKLE",
	"LEFT_HEEL",
	"RIGHT_HEEL",
	"LEFT_FOOT_INDEX",
	"RIGHT_FOOT_INDEX",
}

func (j Joint) Valid() bool {
	return j >= Nose && j <= RightFootIndex
}

func (j Joint) String() string {
	if !j.Valid() {
		return fmt.Sprintf("Joint(%d)", int(j))
	}
	return jointNames[j]
}

func ParseJoint(name string) (Joint, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range jointNames {
		if n == upper {
			return Joint(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownJoint, name)
}

// LandmarkSet is the skeleton produced for one frame. A nil set means the
// estimator found no body.
type LandmarkSet []Landmark

func (s LandmarkSet) Validate() error {
	if len(s) != LandmarkCount {
		return fmt.Errorf("%w: got %d landmarks, want %d", ErrMalformedLandmarks, len(s), LandmarkCount)
	}
	return nil
}

func (s LandmarkSet) Get(j Joint) (Landmark, error) {
	if !j.Valid() {
		return Landmark{}, fmt.Errorf("%w: %s", ErrUnknownJoint, j)
	}
	if err := s.Validate(); err != nil {
		return Landmark{}, err
	}
	return s[j], nil
}

// joints resolves several joints at once, failing on the first problem.
func (s LandmarkSet) joints(js ...Joint) ([]Landmark, error) {
	out := make([]Landmark, len(js))
	for i, j := range js {
		lm, err := s.Get(j)
		if err != nil {
			return nil, err
		}
		out[i] = lm
	}
	return out, nil
}
