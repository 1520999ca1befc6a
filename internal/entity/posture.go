package entity

import "PostureGuard/pkg/posture"

type FrameAnalysis struct {
	PoseDetected  bool                `json:"pose_detected"`
	PostureIssues []posture.Issue     `json:"posture_issues"`
	PoseLandmarks posture.LandmarkSet `json:"pose_landmarks,omitempty"`
}

type VideoFrameAnalysis struct {
	FrameNumber  int             `json:"frame_number"`
	Issues       []posture.Issue `json:"issues"`
	PoseDetected bool            `json:"pose_detected"`
}

type VideoAnalysis struct {
	TotalFrames     int                  `json:"total_frames"`
	ProcessedFrames int                  `json:"processed_frames"`
	TotalIssues     int                  `json:"total_issues"`
	Frames          []VideoFrameAnalysis `json:"frames"`
}
