package redis

import (
	"PostureGuard/pkg/posture"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "posture:landmarks:"

var ErrCacheMiss = errors.New("landmark cache miss")

// ILandmarkCache stores estimator output for recently seen frames so a
// resubmitted frame skips the pose model. Entries expire after the TTL.
type ILandmarkCache interface {
	GetLandmarks(ctx context.Context, frame []byte) (posture.LandmarkSet, error)
	SetLandmarks(ctx context.Context, frame []byte, set posture.LandmarkSet) error
	Close() error
}

type cachedLandmarks struct {
	PoseDetected bool                `json:"pose_detected"`
	Landmarks    posture.LandmarkSet `json:"landmarks,omitempty"`
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects using REDIS_ADDRESS, REDIS_PASSWORD, REDIS_DB and
// LANDMARK_CACHE_TTL. It returns nil when no address is configured.
func New() ILandmarkCache {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		logrus.Info("REDIS_ADDRESS not set, landmark cache disabled")
		return nil
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	ttl, err := time.ParseDuration(os.Getenv("LANDMARK_CACHE_TTL"))
	if err != nil || ttl <= 0 {
		ttl = 5 * time.Minute
	}

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewWithClient(client, ttl)
}

func NewWithClient(client *redis.Client, ttl time.Duration) ILandmarkCache {
	return &redisClient{client: client, ttl: ttl}
}

func FrameKey(frame []byte) string {
	sum := sha256.Sum256(frame)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// GetLandmarks returns ErrCacheMiss for unknown frames. A cached frame with
// no pose yields a nil set and a nil error.
func (r *redisClient) GetLandmarks(ctx context.Context, frame []byte) (posture.LandmarkSet, error) {
	key := FrameKey(frame)
	logrus.Debug(fmt.Sprintf("Getting landmarks for key %s", key))

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting landmarks for key %s: %v", key, err))
		return nil, err
	}

	var cached cachedLandmarks
	if err := jsoniter.Unmarshal(val, &cached); err != nil {
		return nil, fmt.Errorf("decode cached landmarks: %w", err)
	}

	if !cached.PoseDetected {
		return nil, nil
	}
	return cached.Landmarks, nil
}

func (r *redisClient) SetLandmarks(ctx context.Context, frame []byte, set posture.LandmarkSet) error {
	key := FrameKey(frame)

	val, err := jsoniter.Marshal(cachedLandmarks{
		PoseDetected: set != nil,
		Landmarks:    set,
	})
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting landmarks for key %s: %v", key, err))
		return err
	}

	logrus.Debug(fmt.Sprintf("Cached landmarks for key %s with expiration %v", key, r.ttl))
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
