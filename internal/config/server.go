package config

import (
	postureApi "PostureGuard/internal/api/posture"
	postureHandler "PostureGuard/internal/api/posture/handler"
	postureService "PostureGuard/internal/api/posture/service"
	"PostureGuard/internal/middleware"
	"PostureGuard/pkg/estimator"
	"PostureGuard/pkg/frame"
	"PostureGuard/pkg/posture"
	"PostureGuard/pkg/redis"
	"PostureGuard/pkg/utils"
	"PostureGuard/pkg/video"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
)

const (
	defaultFrameMaxDimension = 960
	defaultFrameQuality      = 85
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	evaluator      *posture.Evaluator
	estimator      estimator.IEstimator
	frames         frame.IProcessor
	sampler        video.ISampler
	landmarkCache  redis.ILandmarkCache
	postureService postureService.IPostureService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.evaluator == nil {
		return nil, fmt.Errorf("posture evaluator is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithEvaluator builds the rule engine from POSTURE_THRESHOLDS_FILE, falling
// back to the built-in thresholds when the variable is unset.
func WithEvaluator() ServerOption {
	return func(s *Server) error {
		thresholds := posture.DefaultThresholds()

		if path := os.Getenv("POSTURE_THRESHOLDS_FILE"); path != "" {
			loaded, err := posture.LoadThresholds(path)
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to load thresholds from %s: %v", path, err)
				}
				return fmt.Errorf("failed to load thresholds: %w", err)
			}
			thresholds = loaded
		}

		evaluator, err := posture.NewEvaluator(thresholds)
		if err != nil {
			return fmt.Errorf("failed to create evaluator: %w", err)
		}
		s.evaluator = evaluator
		return nil
	}
}

func WithEstimator(est estimator.IEstimator) ServerOption {
	return func(s *Server) error {
		s.estimator = est
		return nil
	}
}

func WithFrameProcessor() ServerOption {
	return func(s *Server) error {
		s.frames = frame.New(envInt("FRAME_MAX_DIMENSION", defaultFrameMaxDimension), defaultFrameQuality)
		return nil
	}
}

func WithVideoSampler() ServerOption {
	return func(s *Server) error {
		s.sampler = video.New(video.ConfigFromEnv())
		return nil
	}
}

// WithLandmarkCache accepts a nil cache, which disables caching.
func WithLandmarkCache(cache redis.ILandmarkCache) ServerOption {
	return func(s *Server) error {
		s.landmarkCache = cache
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Posture Domain
	s.postureService = postureService.NewPostureService(s.log, s.evaluator, s.estimator, s.frames, s.sampler, s.landmarkCache)
	postureHandlers := postureHandler.New(s.log, s.validator, s.middleware, s.postureService, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, postureHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()

	if s.estimator != nil {
		s.estimator.Close()
	}

	if s.landmarkCache != nil {
		if closeErr := s.landmarkCache.Close(); closeErr != nil {
			s.log.Errorf("Failed to close landmark cache: %v", closeErr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	health := func(ctx *fiber.Ctx) error {
		return ctx.JSON(postureApi.HealthResponse{
			Status:          "healthy",
			Message:         "Posture Detection API is running",
			EstimatorOnline: s.postureService.EstimatorOnline(),
			LandmarkCache:   s.postureService.CacheEnabled(),
		})
	}

	s.engine.Get("/", health)
	s.engine.Get("/health", health)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
