package posture

func emptySet() LandmarkSet {
	return make(LandmarkSet, LandmarkCount)
}

func withJoints(s LandmarkSet, joints map[Joint]Landmark) LandmarkSet {
	out := make(LandmarkSet, len(s))
	copy(out, s)
	for j, lm := range joints {
		out[j] = lm
	}
	return out
}

// goodSquat is a side-on deep squat with both knees behind the ankles.
func goodSquat() LandmarkSet {
	return withJoints(emptySet(), map[Joint]Landmark{
		LeftShoulder:  pt(0.30, 0.40),
		RightShoulder: pt(0.25, 0.40),
		LeftHip:       pt(0.30, 0.70),
		RightHip:      pt(0.25, 0.70),
		LeftKnee:      pt(0.50, 0.70),
		RightKnee:     pt(0.45, 0.70),
		LeftAnkle:     pt(0.55, 0.90),
		RightAnkle:    pt(0.50, 0.90),
	})
}

// uprightDesk is a seated person facing the camera with level shoulders.
func uprightDesk() LandmarkSet {
	return withJoints(emptySet(), map[Joint]Landmark{
		Nose:          pt(0.50, 0.20),
		LeftEar:       pt(0.52, 0.22),
		LeftShoulder:  pt(0.60, 0.35),
		RightShoulder: pt(0.40, 0.35),
		LeftHip:       pt(0.58, 0.70),
		RightHip:      pt(0.42, 0.70),
	})
}

func equalIssues(got, want []Issue) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func countIssue(issues []Issue, target Issue) int {
	n := 0
	for _, i := range issues {
		if i == target {
			n++
		}
	}
	return n
}
