package ai

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const sampleQuality = 85

// ResizeImage shrinks img so its longer side is at most maxSize and returns
// it JPEG encoded. Smaller images are only re-encoded.
func ResizeImage(img image.Image, maxSize int) ([]byte, error) {
	if img == nil {
		return nil, errors.New("failed to encode image: no pixel data")
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("failed to encode image: empty %dx%d image", w, h)
	}

	if w > maxSize || h > maxSize {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/w)
		} else {
			w, h = max(1, w*maxSize/h), maxSize
		}
		img = imaging.Resize(img, w, h, imaging.CatmullRom)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(sampleQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
