// Package compositor paints collages from a batch of photos.
//
// Rendering is a pure function of the batch, the options and the drag
// preview: the same inputs always produce the same pixels, so the output is
// used both for live previews and for exports.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"git.sr.ht/~sbinet/gg"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"

	"github.com/kozaktomas/batch-collage/internal/constants"
	"github.com/kozaktomas/batch-collage/internal/crop"
	"github.com/kozaktomas/batch-collage/internal/layout"
	"github.com/kozaktomas/batch-collage/internal/photo"
)

// Options are the settings applied uniformly to every batch.
type Options struct {
	CanvasSize    int
	FrameSize     int
	ShowFilenames bool
}

func (o Options) canvasSize() int {
	if o.CanvasSize <= 0 {
		return constants.CanvasSize
	}
	return o.CanvasSize
}

func (o Options) frameSize() int {
	return max(o.FrameSize, 0)
}

// DragPreview describes an in-progress swap drag on this canvas.
type DragPreview struct {
	// Index is the batch index of the dragged cell.
	Index int
	// X and Y are the current pointer position in canvas pixels.
	X, Y float64
}

// Compositor renders collages. Font faces are cached per size, so a
// Compositor serializes its renders.
type Compositor struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

// New creates a compositor using the embedded Go Bold font for labels.
func New() (*Compositor, error) {
	fnt, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	return &Compositor{
		font:  fnt,
		faces: make(map[float64]font.Face),
	}, nil
}

func (c *Compositor) face(size float64) (font.Face, error) {
	if f, ok := c.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %.1fpt face: %w", size, err)
	}
	c.faces[size] = f
	return f, nil
}

// Plan returns the layout Render would use for the batch.
func (c *Compositor) Plan(batch []photo.Photo, opts Options) layout.Layout {
	if len(batch) == 0 {
		return layout.Layout{}
	}
	return layout.Compute(len(batch), photo.AverageAspectRatio(batch), opts.canvasSize(), opts.frameSize())
}

// Render paints the batch and returns the raster together with its layout.
// An empty batch yields a blank canvas and a zero layout.
func (c *Compositor) Render(batch []photo.Photo, opts Options, preview *DragPreview) (*image.RGBA, layout.Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := opts.canvasSize()
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	if len(batch) == 0 {
		return dst, layout.Layout{}
	}

	l := c.Plan(batch, opts)
	radius := 0.0
	if opts.frameSize() > 0 {
		radius = constants.CornerRadius
	}

	if preview != nil && (preview.Index < 0 || preview.Index >= len(batch)) {
		preview = nil
	}

	for i, p := range batch {
		opacity := 1.0
		if preview != nil && preview.Index == i {
			opacity = constants.SwapSourceOpacity
		}
		cell := l.Cell(i)
		c.paintCell(dst, p, cell, l, radius, opts.ShowFilenames, opacity)
	}

	if preview != nil {
		ghost := layout.Rect{
			X: preview.X - l.CellWidth/2,
			Y: preview.Y - l.CellHeight/2,
			W: l.CellWidth,
			H: l.CellHeight,
		}
		paintShadow(dst, pixelRect(ghost), radius, constants.GhostOpacity)
		c.paintCell(dst, batch[preview.Index], ghost, l, radius, opts.ShowFilenames, constants.GhostOpacity)
	}

	return dst, l
}

// pixelRect snaps a canvas rectangle to whole pixels so neighbouring cells
// share edges without gaps or overlaps.
func pixelRect(r layout.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}

func alphaMask(opacity float64) image.Image {
	if opacity >= 1 {
		return nil
	}
	return image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
}

func (c *Compositor) paintCell(dst *image.RGBA, p photo.Photo, cell layout.Rect, l layout.Layout, radius float64, showName bool, opacity float64) {
	pr := pixelRect(cell)
	if pr.Dx() <= 0 || pr.Dy() <= 0 {
		return
	}

	img := c.drawCell(p, pr.Dx(), pr.Dy(), l, radius, showName)
	draw.DrawMask(dst, pr, img, image.Point{}, alphaMask(opacity), image.Point{}, draw.Over)
}

// drawCell renders one photo into a w x h image: cover-fit crop, rotation
// about the centre, rounded clip and the optional name band.
func (c *Compositor) drawCell(p photo.Photo, w, h int, l layout.Layout, radius float64, showName bool) image.Image {
	dc := gg.NewContext(w, h)
	if radius > 0 {
		dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
	} else {
		dc.DrawRectangle(0, 0, float64(w), float64(h))
	}
	dc.Clip()

	dc.DrawImage(fitPhoto(p, w, h, l), 0, 0)

	if showName {
		c.drawLabel(dc, p.Name, float64(w), float64(h), l.CellHeight)
	}
	return dc.Image()
}

// fitPhoto crops, scales and rotates the photo so the result is exactly w x h.
func fitPhoto(p photo.Photo, w, h int, l layout.Layout) image.Image {
	res := crop.ForPhoto(p, l.CellWidth, l.CellHeight)

	tw, th := w, h
	if p.Rotation.IsVertical() {
		tw, th = h, w
	}
	scaled := image.NewRGBA(image.Rect(0, 0, tw, th))

	if p.Image == nil || res.Source.W <= 0 || res.Source.H <= 0 {
		draw.Draw(scaled, scaled.Bounds(), image.NewUniform(color.Gray{Y: 0xcc}), image.Point{}, draw.Src)
		return scaled
	}

	// The photo may have a different natural size than its pixel bounds
	// (e.g. a downscaled preview); map crop coordinates proportionally.
	b := p.Image.Bounds()
	natW, natH := p.Size()
	ux := float64(b.Dx()) / natW
	uy := float64(b.Dy()) / natH

	kx := float64(tw) / (res.Source.W * ux)
	ky := float64(th) / (res.Source.H * uy)
	s2d := f64.Aff3{
		kx, 0, -(res.Source.X*ux + float64(b.Min.X)) * kx,
		0, ky, -(res.Source.Y*uy + float64(b.Min.Y)) * ky,
	}
	xdraw.CatmullRom.Transform(scaled, s2d, p.Image, b, xdraw.Src, nil)

	switch p.Rotation.Normalize() {
	case photo.Rotate90:
		return imaging.Rotate270(scaled)
	case photo.Rotate180:
		return imaging.Rotate180(scaled)
	case photo.Rotate270:
		return imaging.Rotate90(scaled)
	default:
		return scaled
	}
}

// paintShadow draws a soft drop shadow behind the rectangle r.
func paintShadow(dst *image.RGBA, r image.Rectangle, radius, opacity float64) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return
	}
	pad := constants.GhostShadowBlur
	sdc := gg.NewContext(r.Dx()+2*pad, r.Dy()+2*pad)
	sdc.SetColor(color.NRGBA{A: uint8(math.Round(constants.GhostShadowAlpha * 255))})
	if radius > 0 {
		sdc.DrawRoundedRectangle(float64(pad), float64(pad), float64(r.Dx()), float64(r.Dy()), radius)
	} else {
		sdc.DrawRectangle(float64(pad), float64(pad), float64(r.Dx()), float64(r.Dy()))
	}
	sdc.Fill()

	blurred := imaging.Blur(sdc.Image(), constants.GhostShadowBlur/2)
	target := r.Inset(-pad)
	draw.DrawMask(dst, target, blurred, image.Point{}, alphaMask(opacity), image.Point{}, draw.Over)
}
