package posture

import "fmt"

type Issue string

const (
	IssueNoPose      Issue = "No pose detected - make sure you are fully visible"
	IssueNoPoseShort Issue = "No pose detected"

	IssueLeftKneeOverToe  Issue = "Left knee extends too far forward beyond toes"
	IssueRightKneeOverToe Issue = "Right knee extends too far forward beyond toes"
	IssueSquatDepth       Issue = "Squat depth insufficient - go lower"
	IssueKneeCave         Issue = "Knees caving inward - push knees out"
	IssueShouldersUneven  Issue = "Shoulders not level - uneven posture"
	IssueHeadTooLow       Issue = "Head position too low - lift your head"
)

func backLeanIssue(angle float64) Issue {
	return Issue(fmt.Sprintf("Back angle too bent forward (%.1f°)", angle))
}

func forwardHeadIssue(angle float64) Issue {
	return Issue(fmt.Sprintf("Forward head posture detected (%.1f°)", angle))
}

func hunchedBackIssue(angle float64) Issue {
	return Issue(fmt.Sprintf("Hunched back detected (%.1f°)", angle))
}

func (i Issue) String() string {
	return string(i)
}

type FrameResult struct {
	PoseDetected bool    `json:"pose_detected"`
	Issues       []Issue `json:"posture_issues"`
}

func NoPoseResult() FrameResult {
	return FrameResult{
		PoseDetected: false,
		Issues:       []Issue{IssueNoPose},
	}
}
