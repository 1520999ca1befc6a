package postureHandler

import (
	postureService "PostureGuard/internal/api/posture/service"
	"PostureGuard/internal/middleware"
	"PostureGuard/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"time"
)

type PostureHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	postureService postureService.IPostureService
	utils          utils.IUtils
	frameTimeout   time.Duration
	videoTimeout   time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ps postureService.IPostureService,
	utils utils.IUtils,
) *PostureHandler {
	return &PostureHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		postureService: ps,
		utils:          utils,
		frameTimeout:   10 * time.Second,
		videoTimeout:   2 * time.Minute,
	}
}

func (h *PostureHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	posture := srv.Group("/posture")
	posture.Get("/activities", h.GetActivities)
	posture.Post("/analyze-frame", h.middleware.NewRateLimiter, h.AnalyzeFrame)
	posture.Post("/analyze-video", h.middleware.NewRateLimiter, h.AnalyzeVideo)
	posture.Post("/evaluate", h.EvaluateLandmarks)

	posture.Use("/ws", wsMiddleware)
	posture.Get("/ws", websocket.New(h.handleLiveWebSocket))
}
