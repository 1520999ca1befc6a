package postureService

import (
	"PostureGuard/internal/entity"
	"PostureGuard/pkg/estimator"
	"PostureGuard/pkg/frame"
	"PostureGuard/pkg/posture"
	"PostureGuard/pkg/redis"
	"PostureGuard/pkg/video"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IPostureService interface {
	AnalyzeFrame(ctx context.Context, image []byte, exerciseType string) (*entity.FrameAnalysis, error)
	AnalyzeVideo(ctx context.Context, videoPath string, exerciseType string) (*entity.VideoAnalysis, error)
	EvaluateLandmarks(ctx context.Context, set posture.LandmarkSet, exerciseType string) (*entity.FrameAnalysis, error)
	Thresholds() posture.Thresholds
	EstimatorOnline() bool
	CacheEnabled() bool
}

type postureService struct {
	log       *logrus.Logger
	evaluator *posture.Evaluator
	estimator estimator.IEstimator
	frames    frame.IProcessor
	sampler   video.ISampler
	cache     redis.ILandmarkCache
}

// NewPostureService wires the rule engine to its collaborators. cache may be
// nil.
func NewPostureService(
	log *logrus.Logger,
	evaluator *posture.Evaluator,
	estimator estimator.IEstimator,
	frames frame.IProcessor,
	sampler video.ISampler,
	cache redis.ILandmarkCache,
) IPostureService {
	return &postureService{
		log:       log,
		evaluator: evaluator,
		estimator: estimator,
		frames:    frames,
		sampler:   sampler,
		cache:     cache,
	}
}

func (s *postureService) Thresholds() posture.Thresholds {
	return s.evaluator.Thresholds()
}

func (s *postureService) EstimatorOnline() bool {
	return s.estimator != nil && s.estimator.IsConnected()
}

func (s *postureService) CacheEnabled() bool {
	return s.cache != nil
}
