package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var ErrInvalidImage = errors.New("invalid image format")

type IProcessor interface {
	Decode(data []byte) (image.Image, error)
	Prepare(data []byte) ([]byte, error)
	Encode(img image.Image) ([]byte, error)
}

type processor struct {
	maxDimension int
	quality      int
}

func New(maxDimension, quality int) IProcessor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &processor{
		maxDimension: maxDimension,
		quality:      quality,
	}
}

// Decode accepts JPEG, PNG and WebP payloads.
func (p *processor) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}

	if isWebP(data) {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, ErrInvalidImage
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}
	return img, nil
}

// isWebP matches the RIFF container header: "RIFF", 4 size bytes, "WEBP".
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}

// Prepare normalizes an uploaded frame into the JPEG the pose model expects.
func (p *processor) Prepare(data []byte) ([]byte, error) {
	img, err := p.Decode(data)
	if err != nil {
		return nil, err
	}
	return p.Encode(img)
}

func (p *processor) Encode(img image.Image) ([]byte, error) {
	img = p.fit(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *processor) fit(img image.Image) image.Image {
	if p.maxDimension <= 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= p.maxDimension && h <= p.maxDimension {
		return img
	}

	if w >= h {
		return imaging.Resize(img, p.maxDimension, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, p.maxDimension, imaging.Lanczos)
}
