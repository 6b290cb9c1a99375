package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// Thumbnailer downscales uploaded images for listing views.
type Thumbnailer struct {
	maxWidth  int
	maxHeight int
	quality   int
}

func NewThumbnailer(maxWidth, maxHeight int) *Thumbnailer {
	return &Thumbnailer{maxWidth: maxWidth, maxHeight: maxHeight, quality: 80}
}

// Generate decodes the source image, fits it into the configured bounding
// box and re-encodes it as JPEG.
func (t *Thumbnailer) Generate(content io.Reader) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("decode image failed: %w", err)
	}

	small := imaging.Fit(img, t.maxWidth, t.maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, small, &jpeg.Options{Quality: t.quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail failed: %w", err)
	}
	return buf, nil
}
