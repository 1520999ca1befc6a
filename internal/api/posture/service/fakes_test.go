package postureService

import (
	"PostureGuard/pkg/frame"
	"PostureGuard/pkg/posture"
	"PostureGuard/pkg/redis"
	"PostureGuard/pkg/video"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeEstimator struct {
	sets  []posture.LandmarkSet
	err   error
	calls int
}

func (f *fakeEstimator) Estimate(_ context.Context, _ []byte) (posture.LandmarkSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.sets) == 0 {
		return nil, nil
	}
	set := f.sets[(f.calls-1)%len(f.sets)]
	return set, nil
}

func (f *fakeEstimator) IsConnected() bool { return true }
func (f *fakeEstimator) Reconnect() error  { return nil }
func (f *fakeEstimator) Close()            {}

type fakeSampler struct {
	frames int
	stride int
	err    error
}

func (f *fakeSampler) Sample(_ context.Context, _ string, fn video.FrameFunc) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < f.frames; i++ {
		if i%f.stride == 0 {
			if err := fn(i, img); err != nil {
				return i + 1, err
			}
		}
	}
	return f.frames, nil
}

type memoryCache struct {
	entries map[string]posture.LandmarkSet
	gets    int
}

func (m *memoryCache) GetLandmarks(_ context.Context, frame []byte) (posture.LandmarkSet, error) {
	m.gets++
	set, ok := m.entries[redis.FrameKey(frame)]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return set, nil
}

func (m *memoryCache) SetLandmarks(_ context.Context, frame []byte, set posture.LandmarkSet) error {
	m.entries[redis.FrameKey(frame)] = set
	return nil
}

func (m *memoryCache) Close() error { return nil }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func pngFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{200, 10, 10, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// squatWithKneeForward has the left knee 0.10 past the ankle and every other
// squat measure within limits.
func squatWithKneeForward() posture.LandmarkSet {
	set := make(posture.LandmarkSet, posture.LandmarkCount)
	set[posture.LeftShoulder] = posture.Landmark{X: 0.30, Y: 0.40}
	set[posture.RightShoulder] = posture.Landmark{X: 0.25, Y: 0.40}
	set[posture.LeftHip] = posture.Landmark{X: 0.30, Y: 0.70}
	set[posture.RightHip] = posture.Landmark{X: 0.25, Y: 0.70}
	set[posture.LeftKnee] = posture.Landmark{X: 0.50, Y: 0.70}
	set[posture.RightKnee] = posture.Landmark{X: 0.45, Y: 0.70}
	set[posture.LeftAnkle] = posture.Landmark{X: 0.40, Y: 0.90}
	set[posture.RightAnkle] = posture.Landmark{X: 0.50, Y: 0.90}
	return set
}

func newTestService(t *testing.T, est *fakeEstimator, sampler video.ISampler, cache redis.ILandmarkCache) IPostureService {
	t.Helper()
	ev, err := posture.NewEvaluator(posture.DefaultThresholds())
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	return NewPostureService(quietLogger(), ev, est, frame.New(64, 80), sampler, cache)
}
