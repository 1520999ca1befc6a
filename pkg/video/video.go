package video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrInvalidVideo = errors.New("invalid video file")
	ErrNoFrames     = errors.New("video contains no frames")
)

// FrameFunc receives every sampled frame together with its position in the
// video.
type FrameFunc func(index int, frame image.Image) error

type ISampler interface {
	Sample(ctx context.Context, path string, fn FrameFunc) (int, error)
}

type Config struct {
	FFmpegPath  string
	FFprobePath string
	MaxFrames   int
	Stride      int
}

func DefaultConfig() Config {
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		MaxFrames:   300,
		Stride:      10,
	}
}

func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv("FFPROBE_PATH"); v != "" {
		cfg.FFprobePath = v
	}
	if n, err := strconv.Atoi(os.Getenv("VIDEO_MAX_FRAMES")); err == nil && n > 0 {
		cfg.MaxFrames = n
	}
	if n, err := strconv.Atoi(os.Getenv("VIDEO_FRAME_STRIDE")); err == nil && n > 0 {
		cfg.Stride = n
	}
	return cfg
}

type ffmpegSampler struct {
	cfg Config
}

func New(cfg Config) ISampler {
	if cfg.Stride <= 0 {
		cfg.Stride = 1
	}
	return &ffmpegSampler{cfg: cfg}
}

type probeResult struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

func (s *ffmpegSampler) probe(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, s.cfg.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ffprobe: %v", ErrInvalidVideo, err)
	}

	var res probeResult
	if err := jsoniter.Unmarshal(out, &res); err != nil {
		return 0, 0, fmt.Errorf("%w: ffprobe output: %v", ErrInvalidVideo, err)
	}
	if len(res.Streams) == 0 || res.Streams[0].Width <= 0 || res.Streams[0].Height <= 0 {
		return 0, 0, fmt.Errorf("%w: no video stream", ErrInvalidVideo)
	}

	return res.Streams[0].Width, res.Streams[0].Height, nil
}

// Sample decodes up to MaxFrames frames and passes every Stride-th one to fn.
// It returns how many frames were read.
func (s *ffmpegSampler) Sample(ctx context.Context, path string, fn FrameFunc) (int, error) {
	width, height, err := s.probe(ctx, path)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	args := []string{"-v", "error", "-i", path}
	if s.cfg.MaxFrames > 0 {
		args = append(args, "-frames:v", strconv.Itoa(s.cfg.MaxFrames))
	}
	args = append(args, "-f", "rawvideo", "-pix_fmt", "rgb24", "-")

	cmd := exec.CommandContext(ctx, s.cfg.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, err
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start ffmpeg: %w", err)
	}

	total, sampleErr := sampleStream(bufio.NewReader(stdout), width, height, s.cfg.MaxFrames, s.cfg.Stride, fn)
	if sampleErr != nil {
		cancel()
	}
	waitErr := cmd.Wait()

	if sampleErr != nil {
		return total, sampleErr
	}
	if total == 0 {
		if waitErr != nil {
			return 0, fmt.Errorf("%w: ffmpeg: %v: %s", ErrInvalidVideo, waitErr, stderr.String())
		}
		return 0, ErrNoFrames
	}

	return total, nil
}

// sampleStream reads packed RGB24 frames from r.
func sampleStream(r io.Reader, width, height, maxFrames, stride int, fn FrameFunc) (int, error) {
	frameSize := width * height * 3
	buf := make([]byte, frameSize)

	count := 0
	for maxFrames <= 0 || count < maxFrames {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return count, err
		}

		if count%stride == 0 {
			if err := fn(count, rgbToImage(buf, width, height)); err != nil {
				return count + 1, err
			}
		}
		count++
	}

	return count, nil
}

func rgbToImage(buf []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < len(buf); i, j = i+3, j+4 {
		img.Pix[j] = buf[i]
		img.Pix[j+1] = buf[i+1]
		img.Pix[j+2] = buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
