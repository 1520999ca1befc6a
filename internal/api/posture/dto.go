package posture

import (
	posturePkg "PostureGuard/pkg/posture"
)

const DefaultExerciseType = string(posturePkg.ActivitySquat)

type AnalyzeFrameRequest struct {
	ImageBase64  string `json:"image_base64" validate:"required"`
	ExerciseType string `json:"exercise_type" validate:"omitempty,max=32"`
}

type EvaluateLandmarksRequest struct {
	ExerciseType string                 `json:"exercise_type" validate:"omitempty,max=32"`
	Landmarks    posturePkg.LandmarkSet `json:"landmarks"`
}

type ActivityInfo struct {
	Name       string      `json:"name"`
	Rules      []string    `json:"rules"`
	Thresholds interface{} `json:"thresholds"`
}

type ActivitiesResponse struct {
	Activities []ActivityInfo `json:"activities"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	EstimatorOnline bool   `json:"estimator_online"`
	LandmarkCache   bool   `json:"landmark_cache"`
}

// ExerciseTypeOrDefault keeps the historical behavior of treating a missing
// exercise type as a squat. A present but unknown value is still rejected.
func ExerciseTypeOrDefault(s string) string {
	if s == "" {
		return DefaultExerciseType
	}
	return s
}
