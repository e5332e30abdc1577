// Package crop computes cover-fit source rectangles for collage cells.
//
// Images are drawn in source orientation onto a target of the rotated
// footprint and then rotated about the cell centre, so vertical rotations
// swap the target dimensions. Pan offsets are expressed in un-rotated source
// pixels; callers rotate screen deltas with RotateDelta before storing them.
package crop

import "github.com/kozaktomas/batch-collage/internal/photo"

// Rect is a rectangle in source image pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Result is the outcome of fitting a source image into a cell.
type Result struct {
	// Source is the region of the source image to draw.
	Source Rect
	// TargetWidth and TargetHeight are the pre-rotation drawing size.
	TargetWidth  float64
	TargetHeight float64
}

// Target returns the pre-rotation drawing size for a cell.
func Target(cellW, cellH float64, rotation photo.Rotation) (float64, float64) {
	if rotation.IsVertical() {
		return cellH, cellW
	}
	return cellW, cellH
}

func natural(w, h float64) (float64, float64) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// Compute returns the cover-fit crop of a naturalW x naturalH image for a
// cellW x cellH cell, shifted by the pan offset along the axis with slack.
// The returned source rectangle always lies within the image bounds.
func Compute(naturalW, naturalH, cellW, cellH float64, rotation photo.Rotation, offsetX, offsetY float64) Result {
	imgW, imgH := natural(naturalW, naturalH)
	targetW, targetH := Target(cellW, cellH, rotation)

	imgRatio := imgW / imgH
	targetRatio := targetW / targetH

	var src Rect
	if imgRatio > targetRatio {
		// Relatively wider image: use full height, pan horizontally.
		src.H = imgH
		src.W = src.H * targetRatio
		src.X = clamp((imgW-src.W)/2-offsetX, 0, imgW-src.W)
	} else {
		src.W = imgW
		src.H = src.W / targetRatio
		src.Y = clamp((imgH-src.H)/2-offsetY, 0, imgH-src.H)
	}

	return Result{
		Source:       src,
		TargetWidth:  targetW,
		TargetHeight: targetH,
	}
}

// ForPhoto is Compute applied to a photo's natural size and transform state.
func ForPhoto(p photo.Photo, cellW, cellH float64) Result {
	return Compute(float64(p.NaturalWidth), float64(p.NaturalHeight), cellW, cellH, p.Rotation, p.OffsetX, p.OffsetY)
}

// PanScale returns how many source pixels one displayed pixel covers for the
// given cell, so screen drags map to a consistent pan at any zoom.
func PanScale(naturalW, naturalH, cellW, cellH float64, rotation photo.Rotation) float64 {
	imgW, imgH := natural(naturalW, naturalH)
	targetW, targetH := Target(cellW, cellH, rotation)

	if imgW/imgH > targetW/targetH {
		return imgH / targetH
	}
	return imgW / targetW
}

// RotateDelta expresses a screen-space drag delta in un-rotated source space
// by applying the inverse of the photo rotation.
func RotateDelta(dx, dy float64, rotation photo.Rotation) (float64, float64) {
	switch rotation.Normalize() {
	case photo.Rotate90:
		return dy, -dx
	case photo.Rotate180:
		return -dx, -dy
	case photo.Rotate270:
		return -dy, dx
	default:
		return dx, dy
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
