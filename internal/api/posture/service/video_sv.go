package postureService

import (
	"PostureGuard/internal/entity"
	contextPkg "PostureGuard/pkg/context"
	"PostureGuard/pkg/posture"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"image"
	"time"
)

func (s *postureService) AnalyzeVideo(ctx context.Context, videoPath string, exerciseType string) (*entity.VideoAnalysis, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	activity, err := posture.ParseActivity(exerciseType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"exercise_type": exerciseType,
		}).Warn("Rejected unsupported exercise type")
		return nil, err
	}

	analysis := &entity.VideoAnalysis{
		Frames: []entity.VideoFrameAnalysis{},
	}

	total, err := s.sampler.Sample(ctx, videoPath, func(index int, img image.Image) error {
		encoded, err := s.frames.Encode(img)
		if err != nil {
			return fmt.Errorf("encode frame %d: %w", index, err)
		}

		set, err := s.estimator.Estimate(ctx, encoded)
		if err != nil {
			return fmt.Errorf("estimate frame %d: %w", index, err)
		}

		if set == nil {
			analysis.Frames = append(analysis.Frames, entity.VideoFrameAnalysis{
				FrameNumber:  index,
				Issues:       []posture.Issue{posture.IssueNoPoseShort},
				PoseDetected: false,
			})
			return nil
		}

		result, err := s.evaluator.Evaluate(set, activity)
		if err != nil {
			return fmt.Errorf("evaluate frame %d: %w", index, err)
		}

		analysis.Frames = append(analysis.Frames, entity.VideoFrameAnalysis{
			FrameNumber:  index,
			Issues:       result.Issues,
			PoseDetected: true,
		})
		analysis.TotalIssues += len(result.Issues)

		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"frames":     total,
			"error":      err.Error(),
		}).Error("Video analysis failed")
		return nil, err
	}

	analysis.TotalFrames = total
	analysis.ProcessedFrames = len(analysis.Frames)

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"activity":         activity,
		"total_frames":     analysis.TotalFrames,
		"processed_frames": analysis.ProcessedFrames,
		"total_issues":     analysis.TotalIssues,
		"latency_ms":       time.Since(start).Milliseconds(),
	}).Info("Video analyzed")

	return analysis, nil
}
