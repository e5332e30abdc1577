// Package photo defines the photo record shared by the collage engine.
package photo

import "image"

// Rotation is a clockwise quarter-turn rotation in degrees.
type Rotation int

// Allowed rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Normalize snaps any angle to the nearest quarter turn in [0, 360).
func (r Rotation) Normalize() Rotation {
	deg := int(r) % 360
	if deg < 0 {
		deg += 360
	}
	// Round to the nearest multiple of 90.
	deg = ((deg + 45) / 90 * 90) % 360
	return Rotation(deg)
}

// Next returns the rotation one quarter turn clockwise.
func (r Rotation) Next() Rotation {
	return (r.Normalize() + 90) % 360
}

// IsVertical reports whether the rotation swaps width and height.
func (r Rotation) IsVertical() bool {
	return r.Normalize()%180 != 0
}

// Photo is one decoded image placed in the collage sequence.
// NaturalWidth and NaturalHeight are fixed at decode time. OffsetX/OffsetY are
// pan offsets in un-rotated source pixels and may be out of range; the
// compositor re-clamps them on every render.
type Photo struct {
	ID            string      `json:"id"`
	Image         image.Image `json:"-"`
	Name          string      `json:"name"`
	NaturalWidth  int         `json:"natural_width"`
	NaturalHeight int         `json:"natural_height"`
	OffsetX       float64     `json:"offset_x"`
	OffsetY       float64     `json:"offset_y"`
	Rotation      Rotation    `json:"rotation"`
}

// New creates a photo with default transform state.
func New(id, name string, img image.Image) Photo {
	b := img.Bounds()
	return Photo{
		ID:            id,
		Image:         img,
		Name:          name,
		NaturalWidth:  b.Dx(),
		NaturalHeight: b.Dy(),
	}
}

// Size returns the natural size, treating missing dimensions as 1px.
func (p Photo) Size() (w, h float64) {
	w, h = float64(p.NaturalWidth), float64(p.NaturalHeight)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// AspectRatio returns width/height as displayed, i.e. after rotation.
func (p Photo) AspectRatio() float64 {
	w, h := p.Size()
	if p.Rotation.IsVertical() {
		return h / w
	}
	return w / h
}

// AverageAspectRatio returns the mean displayed aspect ratio of photos.
// An empty slice yields 1.
func AverageAspectRatio(photos []Photo) float64 {
	if len(photos) == 0 {
		return 1
	}
	var sum float64
	for _, p := range photos {
		sum += p.AspectRatio()
	}
	return sum / float64(len(photos))
}
