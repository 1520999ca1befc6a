package estimator

import (
	"PostureGuard/pkg/posture"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured = errors.New("pose estimator URL not configured")
	ErrEstimator     = errors.New("pose estimator failed")
)

type IEstimator interface {
	Estimate(ctx context.Context, frame []byte) (posture.LandmarkSet, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

// Response is the JSON document the pose service sends back for each frame.
type Response struct {
	PoseDetected bool                `json:"pose_detected"`
	Landmarks    posture.LandmarkSet `json:"landmarks"`
	Error        string              `json:"error,omitempty"`
}

type Config struct {
	URL          string
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		URL:          os.Getenv("POSE_ESTIMATOR_URL"),
		PingInterval: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
		DialTimeout:  10 * time.Second,
	}
}

// webSocketClient owns the single connection to the pose model. The model
// handles one frame at a time, so a full request/response exchange is done
// while holding mu.
type webSocketClient struct {
	cfg  Config
	log  *logrus.Logger
	conn *websocket.Conn
	mu   sync.Mutex
	done chan struct{}
}

func New(cfg Config, logger *logrus.Logger) IEstimator {
	client := &webSocketClient{
		cfg:  cfg,
		log:  logger,
		done: make(chan struct{}),
	}

	go client.connectInBackground()

	return client
}

func (c *webSocketClient) connectInBackground() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
	}

	if c.conn != nil {
		return
	}

	if err := c.reconnectLocked(); err != nil {
		c.log.WithFields(logrus.Fields{
			"url":   c.cfg.URL,
			"error": err.Error(),
		}).Warn("Initial connection to pose estimator failed, will retry on demand")
		return
	}
	c.log.WithField("url", c.cfg.URL).Info("Connected to pose estimator")
}

func (c *webSocketClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *webSocketClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnectLocked()
}

func (c *webSocketClient) reconnectLocked() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	if c.cfg.URL == "" {
		return ErrNotConfigured
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = c.cfg.DialTimeout

	conn, _, err := dialer.Dial(c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.cfg.URL, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.cfg.WriteTimeout))
		if err != nil {
			c.log.Debugf("Error sending pong to pose estimator: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *webSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
	default:
		close(c.done)
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *webSocketClient) keepAlive(conn *websocket.Conn) {
	if c.cfg.PingInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.cfg.WriteTimeout))
		if err != nil {
			c.log.WithField("error", err.Error()).Warn("Ping to pose estimator failed, dropping connection")
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// Estimate sends one encoded frame and returns its landmarks. A nil set with
// a nil error means no body was found in the frame.
func (c *webSocketClient) Estimate(ctx context.Context, frame []byte) (posture.LandmarkSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.reconnectLocked(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEstimator, err)
		}
	}

	message, err := c.exchange(ctx, frame)
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return nil, fmt.Errorf("%w: %v", ErrEstimator, err)
	}

	return decodeResponse(message)
}

func (c *webSocketClient) exchange(ctx context.Context, frame []byte) ([]byte, error) {
	writeDeadline := time.Now().Add(c.cfg.WriteTimeout)
	readDeadline := time.Now().Add(c.cfg.ReadTimeout)
	if d, ok := ctx.Deadline(); ok {
		if d.Before(writeDeadline) {
			writeDeadline = d
		}
		if d.Before(readDeadline) {
			readDeadline = d
		}
	}

	if err := c.conn.SetWriteDeadline(writeDeadline); err != nil {
		return nil, err
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	if err := c.conn.SetReadDeadline(readDeadline); err != nil {
		return nil, err
	}
	_, message, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	c.conn.SetReadDeadline(time.Time{})
	c.conn.SetWriteDeadline(time.Time{})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return message, nil
}

func decodeResponse(message []byte) (posture.LandmarkSet, error) {
	var resp Response
	if err := jsoniter.Unmarshal(message, &resp); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling response: %v", ErrEstimator, err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrEstimator, resp.Error)
	}

	if !resp.PoseDetected {
		return nil, nil
	}

	if len(resp.Landmarks) != posture.LandmarkCount {
		return nil, fmt.Errorf("%w: got %d landmarks, want %d", posture.ErrMalformedLandmarks, len(resp.Landmarks), posture.LandmarkCount)
	}

	return resp.Landmarks, nil
}
