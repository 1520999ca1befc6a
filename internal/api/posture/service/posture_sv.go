package postureService

import (
	postureApi "PostureGuard/internal/api/posture"
	"PostureGuard/internal/entity"
	contextPkg "PostureGuard/pkg/context"
	"PostureGuard/pkg/posture"
	"PostureGuard/pkg/redis"
	"errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *postureService) AnalyzeFrame(ctx context.Context, image []byte, exerciseType string) (*entity.FrameAnalysis, error) {
	requestID := contextPkg.GetRequestID(ctx)

	activity, err := posture.ParseActivity(exerciseType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"exercise_type": exerciseType,
		}).Warn("Rejected unsupported exercise type")
		return nil, err
	}

	set, err := s.landmarksFor(ctx, image)
	if err != nil {
		return nil, err
	}

	return s.evaluate(requestID, set, activity)
}

func (s *postureService) EvaluateLandmarks(ctx context.Context, set posture.LandmarkSet, exerciseType string) (*entity.FrameAnalysis, error) {
	activity, err := posture.ParseActivity(exerciseType)
	if err != nil {
		return nil, err
	}

	if set != nil {
		if err := set.Validate(); err != nil {
			return nil, postureApi.ErrInvalidLandmarks
		}
	}

	return s.evaluate(contextPkg.GetRequestID(ctx), set, activity)
}

func (s *postureService) evaluate(requestID string, set posture.LandmarkSet, activity posture.Activity) (*entity.FrameAnalysis, error) {
	result, err := s.evaluator.Evaluate(set, activity)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"activity":   activity,
			"landmarks":  len(set),
			"error":      err.Error(),
		}).Error("Posture evaluation failed")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"activity":      activity,
		"pose_detected": result.PoseDetected,
		"issues":        len(result.Issues),
	}).Debug("Frame evaluated")

	analysis := &entity.FrameAnalysis{
		PoseDetected:  result.PoseDetected,
		PostureIssues: result.Issues,
	}
	if result.PoseDetected {
		analysis.PoseLandmarks = set
	}

	return analysis, nil
}

// landmarksFor prepares the upload and runs the estimator, consulting the
// landmark cache first when one is configured.
func (s *postureService) landmarksFor(ctx context.Context, image []byte) (posture.LandmarkSet, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.cache != nil {
		set, err := s.cache.GetLandmarks(ctx, image)
		if err == nil {
			s.log.WithField("request_id", requestID).Debug("Landmark cache hit")
			return set, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Landmark cache lookup failed")
		}
	}

	prepared, err := s.frames.Prepare(image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"size":       len(image),
			"error":      err.Error(),
		}).Warn("Could not decode frame")
		return nil, err
	}

	set, err := s.estimator.Estimate(ctx, prepared)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Pose estimation failed")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLandmarks(ctx, image, set); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to cache landmarks")
		}
	}

	return set, nil
}
