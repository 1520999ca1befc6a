package postureHandler

import (
	postureApi "PostureGuard/internal/api/posture"
	"PostureGuard/internal/entity"
	"PostureGuard/internal/middleware"
	contextPkg "PostureGuard/pkg/context"
	"PostureGuard/pkg/handlerUtil"
	"PostureGuard/pkg/posture"
	"PostureGuard/pkg/utils"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type fakeService struct {
	frameErr     error
	lastImage    []byte
	lastExercise string
	lastVideo    string
	videoExisted bool
	lastSet      posture.LandmarkSet
	requestIDs   chan string
}

func (f *fakeService) AnalyzeFrame(ctx context.Context, image []byte, exerciseType string) (*entity.FrameAnalysis, error) {
	if f.requestIDs != nil {
		f.requestIDs <- contextPkg.GetRequestID(ctx)
		return &entity.FrameAnalysis{PoseDetected: false, PostureIssues: []posture.Issue{posture.IssueNoPose}}, nil
	}
	f.lastImage = image
	f.lastExercise = exerciseType
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	if _, err := posture.ParseActivity(exerciseType); err != nil {
		return nil, err
	}
	return &entity.FrameAnalysis{
		PoseDetected:  true,
		PostureIssues: []posture.Issue{posture.IssueLeftKneeOverToe},
	}, nil
}

func (f *fakeService) AnalyzeVideo(_ context.Context, videoPath string, exerciseType string) (*entity.VideoAnalysis, error) {
	f.lastVideo = videoPath
	f.lastExercise = exerciseType
	_, err := os.Stat(videoPath)
	f.videoExisted = err == nil
	return &entity.VideoAnalysis{TotalFrames: 20, ProcessedFrames: 2, TotalIssues: 1}, nil
}

func (f *fakeService) EvaluateLandmarks(_ context.Context, set posture.LandmarkSet, exerciseType string) (*entity.FrameAnalysis, error) {
	f.lastSet = set
	f.lastExercise = exerciseType
	return &entity.FrameAnalysis{PoseDetected: set != nil, PostureIssues: []posture.Issue{}}, nil
}

func (f *fakeService) Thresholds() posture.Thresholds { return posture.DefaultThresholds() }
func (f *fakeService) EstimatorOnline() bool          { return false }
func (f *fakeService) CacheEnabled() bool             { return false }

func newTestApp(t *testing.T, svc *fakeService) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	mw := middleware.New(logger)
	app.Use(mw.NewRequestIDMiddleware())

	New(logger, validator.New(), mw, svc, utils.New()).Start(app.Group("/api/v1"))
	return app
}

func multipartBody(t *testing.T, field, filename string, content []byte, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(content)
	}
	for k, v := range values {
		w.WriteField(k, v)
	}
	w.Close()
	return body, w.FormDataContentType()
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := jsoniter.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAnalyzeFrameMultipart(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)

	body, contentType := multipartBody(t, "frame", "frame.jpg", []byte("jpeg-bytes"), map[string]string{"exercise_type": "desk"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/analyze-frame", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got entity.FrameAnalysis
	decode(t, resp, &got)
	if !got.PoseDetected || len(got.PostureIssues) != 1 || got.PostureIssues[0] != posture.IssueLeftKneeOverToe {
		t.Fatalf("unexpected analysis %+v", got)
	}
	if string(svc.lastImage) != "jpeg-bytes" || svc.lastExercise != "desk" {
		t.Fatalf("service saw image %q exercise %q", svc.lastImage, svc.lastExercise)
	}
}

func TestAnalyzeFrameJSONDefaultsToSquat(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)

	payload := `{"image_base64":"data:image/png;base64,` + base64.StdEncoding.EncodeToString([]byte("png-bytes")) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/analyze-frame", strings.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(svc.lastImage) != "png-bytes" || svc.lastExercise != postureApi.DefaultExerciseType {
		t.Fatalf("service saw image %q exercise %q", svc.lastImage, svc.lastExercise)
	}
}

func TestAnalyzeFrameErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        func(t *testing.T) (io.Reader, string)
		status      int
		wantMessage string
	}{
		{
			name: "missing frame",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, "", "", nil, map[string]string{"exercise_type": "squat"})
			},
			status:      http.StatusBadRequest,
			wantMessage: "No frame provided",
		},
		{
			name: "unknown exercise",
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, "frame", "frame.jpg", []byte("x"), map[string]string{"exercise_type": "yoga"})
			},
			status:      http.StatusBadRequest,
			wantMessage: "Invalid exercise type",
		},
		{
			name: "bad base64",
			body: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{"image_base64":"%%%"}`), fiber.MIMEApplicationJSON
			},
			status:      http.StatusBadRequest,
			wantMessage: "Invalid image format",
		},
		{
			name: "missing base64",
			body: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{"exercise_type":"desk"}`), fiber.MIMEApplicationJSON
			},
			status:      http.StatusBadRequest,
			wantMessage: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, &fakeService{})

			body, contentType := tt.body(t)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/analyze-frame", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}

			var got handlerUtil.ErrorResponse
			decode(t, resp, &got)
			if !strings.HasPrefix(got.Error, tt.wantMessage) {
				t.Fatalf("error = %q, want prefix %q", got.Error, tt.wantMessage)
			}
		})
	}
}

func TestAnalyzeVideo(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)

	body, contentType := multipartBody(t, "video", "clip.mp4", []byte("mp4-bytes"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/analyze-video", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got entity.VideoAnalysis
	decode(t, resp, &got)
	if got.TotalFrames != 20 || got.ProcessedFrames != 2 || got.TotalIssues != 1 {
		t.Fatalf("unexpected analysis %+v", got)
	}
	if !svc.videoExisted {
		t.Fatal("video was not saved before analysis")
	}
	if _, err := os.Stat(svc.lastVideo); !os.IsNotExist(err) {
		t.Fatalf("temporary video %s was not removed", svc.lastVideo)
	}
	if svc.lastExercise != postureApi.DefaultExerciseType {
		t.Fatalf("exercise = %q", svc.lastExercise)
	}
}

func TestAnalyzeVideoMissingFile(t *testing.T) {
	app := newTestApp(t, &fakeService{})

	body, contentType := multipartBody(t, "", "", nil, map[string]string{"exercise_type": "squat"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/analyze-video", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestEvaluateLandmarks(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(t, svc)

	points := make([]string, posture.LandmarkCount)
	for i := range points {
		points[i] = "[0.5,0.5,0]"
	}
	payload := `{"exercise_type":"desk","landmarks":[` + strings.Join(points, ",") + `]}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posture/evaluate", strings.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(svc.lastSet) != posture.LandmarkCount || svc.lastExercise != "desk" {
		t.Fatalf("service saw %d landmarks for %q", len(svc.lastSet), svc.lastExercise)
	}
	if svc.lastSet[posture.Nose] != (posture.Landmark{X: 0.5, Y: 0.5}) {
		t.Fatalf("nose = %+v", svc.lastSet[posture.Nose])
	}
}

func TestGetActivities(t *testing.T) {
	app := newTestApp(t, &fakeService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posture/activities", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var got struct {
		Activities []struct {
			Name  string   `json:"name"`
			Rules []string `json:"rules"`
		} `json:"activities"`
	}
	decode(t, resp, &got)

	if len(got.Activities) != 2 {
		t.Fatalf("activities = %+v", got.Activities)
	}
	if got.Activities[0].Name != "squat" || len(got.Activities[0].Rules) != len(posture.SquatRules) {
		t.Fatalf("squat = %+v", got.Activities[0])
	}
	if got.Activities[1].Name != "desk" || len(got.Activities[1].Rules) != len(posture.DeskRules) {
		t.Fatalf("desk = %+v", got.Activities[1])
	}
}

func TestLiveEndpointRequiresUpgrade(t *testing.T) {
	app := newTestApp(t, &fakeService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posture/ws", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
