package posture

import "math"

var SquatRules = RuleSet{
	{Name: "left_knee_over_toe", Check: kneeOverToe(LeftKnee, LeftAnkle, IssueLeftKneeOverToe)},
	{Name: "right_knee_over_toe", Check: kneeOverToe(RightKnee, RightAnkle, IssueRightKneeOverToe)},
	{Name: "back_lean", Check: squatBackLean},
	{Name: "squat_depth", Check: squatDepth},
	{Name: "knee_cave", Check: kneeCave},
}

func kneeOverToe(knee, ankle Joint, issue Issue) func(LandmarkSet, Thresholds) (Issue, bool, error) {
	return func(s LandmarkSet, t Thresholds) (Issue, bool, error) {
		p, err := s.joints(knee, ankle)
		if err != nil {
			return "", false, err
		}
		return issue, p[0].X > p[1].X+t.Squat.KneeToeMargin, nil
	}
}

func squatBackLean(s LandmarkSet, t Thresholds) (Issue, bool, error) {
	p, err := s.joints(LeftHip, LeftShoulder)
	if err != nil {
		return "", false, err
	}
	hip, shoulder := p[0], p[1]

	angle := Angle(hip, shoulder, above(shoulder, t.Squat.VerticalOffset))
	if angle < t.Squat.BackAngleMin {
		return backLeanIssue(angle), true, nil
	}
	return "", false, nil
}

func squatDepth(s LandmarkSet, t Thresholds) (Issue, bool, error) {
	p, err := s.joints(LeftAnkle, LeftKnee, LeftHip)
	if err != nil {
		return "", false, err
	}

	angle := Angle(p[0], p[1], p[2])
	return IssueSquatDepth, angle > t.Squat.DepthAngleMax, nil
}

func kneeCave(s LandmarkSet, t Thresholds) (Issue, bool, error) {
	p, err := s.joints(LeftKnee, RightKnee, LeftHip, RightHip)
	if err != nil {
		return "", false, err
	}

	kneeDistance := math.Abs(p[0].X - p[1].X)
	hipDistance := math.Abs(p[2].X - p[3].X)
	return IssueKneeCave, kneeDistance < hipDistance*t.Squat.KneeCaveRatio, nil
}
