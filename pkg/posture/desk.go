package posture

import "math"

var DeskRules = RuleSet{
	{Name: "forward_head", Check: forwardHead},
	{Name: "shoulder_level", Check: shoulderLevel},
	{Name: "hunched_back", Check: hunchedBack},
	{Name: "head_too_low", Check: headTooLow},
}

// The vertical references below are offsets from the measured joint itself,
// so an upright sitter measures close to 180°. Tests pin this behavior.
func forwardHead(s LandmarkSet, t Thresholds) (Issue, bool, error) {
	p, err := s.joints(LeftShoulder, LeftEar)
	if err != nil {
		return "", false, err
	}
	shoulder, ear := p[0], p[1]

	angle := Angle(shoulder, ear, above(ear, t.Desk.VerticalOffset))
	if angle > t.Desk.NeckAngleMax {
		return forwardHeadIssue(angle), true, nil
	}
	return "", false, nil
}

func shoulderLevel(s LandmarkSet, t Thresholds) (Issue, bool, error) {
	p, err := s.joints(LeftShoulder, RightShoulder)
	if err != nil {
		return "", false, err
	}

	slope := math.Abs(p[0].Y - p[1].Y)
	return IssueShouldersUneven, slope > t.Desk.ShoulderSlopeMax, nil
}

func hunchedBack(s LandmarkSet, t Thresholds) (Issue, bool, error) {
	p, err := s.joints(LeftShoulder, RightShoulder, LeftHip, RightHip)
	if err != nil {
		return "", false, err
	}
	shoulders := Midpoint(p[0], p[1])
	hips := Midpoint(p[2], p[3])

	angle := Angle(hips, shoulders, above(shoulders, t.Desk.VerticalOffset))
	if angle > t.Desk.BackAngleMax {
		return hunchedBackIssue(angle), true, nil
	}
	return "", false, nil
}

func headTooLow(s LandmarkSet, t Thresholds) (Issue, bool, error) {
	p, err := s.joints(Nose, LeftShoulder)
	if err != nil {
		return "", false, err
	}
	return IssueHeadTooLow, p[0].Y > p[1].Y+t.Desk.HeadDropMargin, nil
}
