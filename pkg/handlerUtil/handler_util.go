package handlerUtil

import (
	postureApi "PostureGuard/internal/api/posture"
	"PostureGuard/pkg/estimator"
	"PostureGuard/pkg/frame"
	"PostureGuard/pkg/log"
	"PostureGuard/pkg/posture"
	"PostureGuard/pkg/response"
	"PostureGuard/pkg/utils"
	"PostureGuard/pkg/video"
	"context"
	"errors"
	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Status maps an error to the HTTP status and client message the API uses
// for it. Unknown errors map to 500.
func Status(err error) (int, string, string) {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return respErr.Code, respErr.Error(), ""
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message, ""
	}

	switch {
	case errors.Is(err, posture.ErrInvalidActivity):
		return fiber.StatusBadRequest, "Invalid exercise type", "INVALID_EXERCISE_TYPE"
	case errors.Is(err, frame.ErrInvalidImage):
		return fiber.StatusBadRequest, "Invalid image format", "INVALID_IMAGE"
	case errors.Is(err, utils.ErrInvalidBase64):
		return fiber.StatusBadRequest, "Invalid image format", "INVALID_IMAGE"
	case errors.Is(err, video.ErrInvalidVideo), errors.Is(err, video.ErrNoFrames):
		return fiber.StatusBadRequest, "Invalid video file", "INVALID_VIDEO"
	case errors.Is(err, utils.ErrNotAnImage):
		return fiber.StatusBadRequest, "Invalid file type. Only images are allowed.", "INVALID_FILE_TYPE"
	case errors.Is(err, utils.ErrNotAVideo):
		return fiber.StatusBadRequest, "Invalid file type. Only videos are allowed.", "INVALID_FILE_TYPE"
	case errors.Is(err, utils.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge, "File too large", "FILE_TOO_LARGE"
	case errors.Is(err, posture.ErrMalformedLandmarks), errors.Is(err, posture.ErrUnknownJoint):
		return fiber.StatusInternalServerError, "Pose estimator returned an incompatible skeleton", "INCOMPATIBLE_ESTIMATOR"
	case errors.Is(err, estimator.ErrNotConfigured):
		return fiber.StatusServiceUnavailable, "Pose estimator unavailable", "ESTIMATOR_NOT_CONFIGURED"
	case errors.Is(err, estimator.ErrEstimator):
		return fiber.StatusBadGateway, "Pose estimator unavailable", "ESTIMATOR_UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout, fiberUtils.StatusMessage(fiber.StatusRequestTimeout), "TIMEOUT"
	}

	return fiber.StatusInternalServerError, "An unexpected error occurred", ""
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	status, message, code := Status(err)

	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"code":       status,
		"path":       path,
		"operation":  operation,
	}

	if status >= fiber.StatusInternalServerError {
		fields["trace_id"] = requestID
		h.logger.WithFields(fields).Error("Operation failed")
		return c.Status(status).JSON(ErrorResponse{Error: message, Code: code, TraceID: requestID})
	}

	if errors.Is(err, postureApi.ErrNoFrame) || errors.Is(err, postureApi.ErrNoVideo) {
		h.logger.WithFields(fields).Warn("Upload missing")
	} else {
		h.logger.WithFields(fields).Warn("Operation failed with client error")
	}

	return c.Status(status).JSON(ErrorResponse{Error: message, Code: code})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: fiberUtils.StatusMessage(fiber.StatusRequestTimeout),
		Code:  "TIMEOUT",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
