package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is returned when the source bytes cannot be decoded
// as an image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

const (
	ModeFit  = "fit"  // preserve aspect ratio, bound by Size
	ModeFill = "fill" // fixed Size x Size square, overflow cropped
)

// Result carries the encoded thumbnail and the pixel dimensions of the
// decoded source (not of the thumbnail).
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Generator derives thumbnails from raw image buffers. The resize policy and
// output quality are fixed at construction so every upload in a deployment is
// treated the same way. Output is always JPEG regardless of input format.
type Generator struct {
	size    int
	mode    string
	quality int
}

func New(size int, mode string, quality int) *Generator {
	if size <= 0 {
		size = 300
	}
	if mode != ModeFit && mode != ModeFill {
		mode = ModeFit
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Generator{size: size, mode: mode, quality: quality}
}

// Generate decodes src, records its dimensions and produces a resized JPEG.
// It has no side effects; a decode failure leaves nothing behind.
func (g *Generator) Generate(src []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	bounds := img.Bounds()

	var thumb image.Image
	switch g.mode {
	case ModeFill:
		thumb = imaging.Fill(img, g.size, g.size, imaging.Center, imaging.Lanczos)
	default:
		if bounds.Dx() > g.size || bounds.Dy() > g.size {
			thumb = imaging.Fit(img, g.size, g.size, imaging.Lanczos)
		} else {
			thumb = img
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(g.quality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return &Result{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
