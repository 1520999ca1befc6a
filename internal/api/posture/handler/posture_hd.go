package postureHandler

import (
	postureApi "PostureGuard/internal/api/posture"
	contextPkg "PostureGuard/pkg/context"
	"PostureGuard/pkg/handlerUtil"
	"PostureGuard/pkg/log"
	"PostureGuard/pkg/posture"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"strings"
)

func (h *PostureHandler) AnalyzeFrame(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.frameTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var (
		image        []byte
		exerciseType string
		err          error
	)

	if strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Debug("Processing JSON frame request")

		var req postureApi.AnalyzeFrameRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		image, err = h.utils.DecodeBase64Image(req.ImageBase64)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_base64")
		}
		exerciseType = req.ExerciseType
	} else {
		file, err := ctx.FormFile("frame")
		if err != nil {
			return errHandler.Handle(ctx, requestID, postureApi.ErrNoFrame, ctx.Path(), "read_form_file")
		}

		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing frame upload")

		if err := h.utils.ValidateImageFile(file); err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
		}

		image, err = h.utils.ReadFile(file)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
		}
		exerciseType = ctx.FormValue("exercise_type")
	}

	result, err := h.postureService.AnalyzeFrame(c, image, postureApi.ExerciseTypeOrDefault(exerciseType))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_frame")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":    requestID,
			"path":          ctx.Path(),
			"pose_detected": result.PoseDetected,
			"issues":        len(result.PostureIssues),
		}).Info("Frame analysis successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *PostureHandler) AnalyzeVideo(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.videoTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("video")
	if err != nil {
		return errHandler.Handle(ctx, requestID, postureApi.ErrNoVideo, ctx.Path(), "read_form_file")
	}

	if err := h.utils.ValidateVideoFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_video_file")
	}

	path, cleanup, err := h.utils.SaveTempFile(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "save_temp_file")
	}
	defer cleanup()

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing video upload")

	exerciseType := postureApi.ExerciseTypeOrDefault(ctx.FormValue("exercise_type"))
	result, err := h.postureService.AnalyzeVideo(c, path, exerciseType)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_video")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":       requestID,
			"path":             ctx.Path(),
			"total_frames":     result.TotalFrames,
			"processed_frames": result.ProcessedFrames,
			"total_issues":     result.TotalIssues,
		}).Info("Video analysis successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *PostureHandler) EvaluateLandmarks(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	var req postureApi.EvaluateLandmarksRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.postureService.EvaluateLandmarks(
		contextPkg.FromFiberCtx(ctx),
		req.Landmarks,
		postureApi.ExerciseTypeOrDefault(req.ExerciseType),
	)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "evaluate_landmarks")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}

func (h *PostureHandler) GetActivities(ctx *fiber.Ctx) error {
	thresholds := h.postureService.Thresholds()

	return ctx.JSON(postureApi.ActivitiesResponse{
		Activities: []postureApi.ActivityInfo{
			{
				Name:       string(posture.ActivitySquat),
				Rules:      ruleNames(posture.SquatRules),
				Thresholds: thresholds.Squat,
			},
			{
				Name:       string(posture.ActivityDesk),
				Rules:      ruleNames(posture.DeskRules),
				Thresholds: thresholds.Desk,
			},
		},
	})
}

func ruleNames(rs posture.RuleSet) []string {
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, r.Name)
	}
	return names
}
