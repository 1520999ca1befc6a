package postureHandler

import (
	postureApi "PostureGuard/internal/api/posture"
	"PostureGuard/internal/middleware"
	contextPkg "PostureGuard/pkg/context"
	"PostureGuard/pkg/handlerUtil"
	"PostureGuard/pkg/posture"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"time"
)

type streamError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleLiveWebSocket analyzes webcam frames pushed as binary messages and
// answers each one with a frame analysis.
func (h *PostureHandler) handleLiveWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	if requestID == "" {
		requestID = "unknown"
	}

	exerciseType := postureApi.ExerciseTypeOrDefault(c.Query("exercise_type"))
	if _, err := posture.ParseActivity(exerciseType); err != nil {
		_, msg, code := handlerUtil.Status(err)
		c.WriteJSON(streamError{Error: msg, Code: code})
		return
	}

	h.log.WithField("request_id", requestID).Info("Live posture WebSocket client connected")
	defer h.log.WithField("request_id", requestID).Info("Live posture WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Live posture WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), h.frameTimeout)
		result, err := h.postureService.AnalyzeFrame(ctx, message, exerciseType)
		cancel()

		var reply interface{} = result
		if err != nil {
			_, msg, code := handlerUtil.Status(err)
			reply = streamError{Error: msg, Code: code}
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
