package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/kozaktomas/batch-collage/internal/layout"
	"github.com/kozaktomas/batch-collage/internal/photo"
)

// Helper functions for creating test photos

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func solidPhoto(id string, width, height int, c color.Color) photo.Photo {
	return photo.New(id, id+".jpg", solidImage(width, height, c))
}

func newTestCompositor(t *testing.T) *Compositor {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func near(got, want uint8, tolerance int) bool {
	d := int(got) - int(want)
	return d >= -tolerance && d <= tolerance
}

func assertPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA, tolerance int) {
	t.Helper()
	got := img.RGBAAt(x, y)
	if !near(got.R, want.R, tolerance) || !near(got.G, want.G, tolerance) || !near(got.B, want.B, tolerance) {
		t.Errorf("pixel (%d, %d) = %v, want %v ±%d", x, y, got, want, tolerance)
	}
}

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestRender_SizeAndLayout(t *testing.T) {
	c := newTestCompositor(t)
	batch := []photo.Photo{
		solidPhoto("a", 100, 100, red),
		solidPhoto("b", 100, 100, blue),
		solidPhoto("c", 100, 100, red),
		solidPhoto("d", 100, 100, blue),
	}

	img, l := c.Render(batch, Options{CanvasSize: 1200, FrameSize: 20}, nil)

	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 1200 {
		t.Fatalf("expected 1200x1200 canvas, got %v", img.Bounds())
	}
	expected := layout.Compute(4, 1.0, 1200, 20)
	if l != expected {
		t.Errorf("expected layout %+v, got %+v", expected, l)
	}
	if l != c.Plan(batch, Options{CanvasSize: 1200, FrameSize: 20}) {
		t.Error("Plan and Render disagree on the layout")
	}

	// Cell centers.
	assertPixel(t, img, 305, 305, red, 3)
	assertPixel(t, img, 895, 305, blue, 3)
	// Gap between cells stays background.
	assertPixel(t, img, 600, 305, white, 0)
}

func TestRender_EmptyBatch(t *testing.T) {
	c := newTestCompositor(t)
	img, l := c.Render(nil, Options{}, nil)

	if l != (layout.Layout{}) {
		t.Errorf("expected zero layout, got %+v", l)
	}
	assertPixel(t, img, 600, 600, white, 0)
}

func TestRender_Deterministic(t *testing.T) {
	c := newTestCompositor(t)
	gradient := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for y := range 200 {
		for x := range 300 {
			gradient.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	p := photo.New("g", "a-rather-long-file-name-for-a-small-cell.jpg", gradient)
	p.OffsetX = 35
	p.Rotation = photo.Rotate90
	batch := []photo.Photo{p, solidPhoto("b", 120, 160, blue), solidPhoto("c", 50, 50, red)}
	opts := Options{CanvasSize: 600, FrameSize: 10, ShowFilenames: true}
	preview := &DragPreview{Index: 1, X: 250, Y: 410}

	first, _ := c.Render(batch, opts, preview)
	second, _ := c.Render(batch, opts, preview)

	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("expected identical output for identical inputs")
	}
}

func TestRender_RoundedCorners(t *testing.T) {
	c := newTestCompositor(t)
	batch := []photo.Photo{solidPhoto("a", 100, 100, red)}

	img, _ := c.Render(batch, Options{CanvasSize: 1200, FrameSize: 20}, nil)
	// The very corner of the cell is outside the rounded clip.
	assertPixel(t, img, 20, 20, white, 0)
	assertPixel(t, img, 600, 600, red, 3)

	img, _ = c.Render(batch, Options{CanvasSize: 1200, FrameSize: 0}, nil)
	// Without a frame the cell is square and fills the canvas.
	assertPixel(t, img, 0, 0, red, 3)
	assertPixel(t, img, 1199, 1199, red, 3)
}

func TestRender_RotationAboutCellCenter(t *testing.T) {
	c := newTestCompositor(t)

	// Left half red, right half blue.
	img := solidImage(200, 100, blue)
	draw.Draw(img, image.Rect(0, 0, 100, 100), image.NewUniform(red), image.Point{}, draw.Src)
	p := photo.New("r", "r.png", img)
	p.Rotation = photo.Rotate90

	out, _ := c.Render([]photo.Photo{p}, Options{CanvasSize: 1200, FrameSize: 20}, nil)

	// Rotated clockwise, the left (red) half ends up on top.
	assertPixel(t, out, 600, 300, red, 3)
	assertPixel(t, out, 600, 900, blue, 3)
}

func TestRender_SwapPreview(t *testing.T) {
	c := newTestCompositor(t)
	batch := []photo.Photo{
		solidPhoto("a", 100, 200, red),
		solidPhoto("b", 100, 200, blue),
	}
	opts := Options{CanvasSize: 1200, FrameSize: 20}

	img, l := c.Render(batch, opts, &DragPreview{Index: 0, X: 900, Y: 300})
	if l.Cols != 2 || l.Rows != 1 {
		t.Fatalf("expected 2x1 layout, got %dx%d", l.Cols, l.Rows)
	}

	// Source cell is faded to 20% over the white background.
	assertPixel(t, img, 305, 600, color.RGBA{R: 255, G: 204, B: 204, A: 255}, 3)

	// The ghost is painted on top of the other cell at the pointer.
	got := img.RGBAAt(900, 300)
	if got.R < 200 || got.B > 50 {
		t.Errorf("expected ghost of the red photo at the pointer, got %v", got)
	}
}

func TestRender_PreviewOutOfRangeIgnored(t *testing.T) {
	c := newTestCompositor(t)
	batch := []photo.Photo{solidPhoto("a", 100, 100, red)}

	withPreview, _ := c.Render(batch, Options{FrameSize: 20}, &DragPreview{Index: 3, X: 10, Y: 10})
	without, _ := c.Render(batch, Options{FrameSize: 20}, nil)

	if !bytes.Equal(withPreview.Pix, without.Pix) {
		t.Error("expected out-of-range preview to be ignored")
	}
}

func TestRender_LabelBand(t *testing.T) {
	c := newTestCompositor(t)
	p := solidPhoto("w", 100, 100, white)
	p.Name = ""

	img, l := c.Render([]photo.Photo{p}, Options{CanvasSize: 1200, FrameSize: 20, ShowFilenames: true}, nil)
	bottom := int(l.Margin + l.CellHeight)

	// 45% black over white.
	assertPixel(t, img, 100, bottom-10, color.RGBA{R: 140, G: 140, B: 140, A: 255}, 3)
	// Above the 48px band the photo is untouched.
	assertPixel(t, img, 100, bottom-60, white, 3)
}

func TestLabelMetrics(t *testing.T) {
	tests := []struct {
		cellHeight float64
		band       float64
		font       float64
	}{
		{100, 24, 12},
		{200, 30, 16},
		{570, 48, 22},
	}
	for _, tt := range tests {
		band, size := labelMetrics(tt.cellHeight)
		if band != tt.band || size != tt.font {
			t.Errorf("labelMetrics(%v) = (%v, %v), want (%v, %v)", tt.cellHeight, band, size, tt.band, tt.font)
		}
	}
}

func TestFitLabel(t *testing.T) {
	measure := func(s string) float64 { return float64(len([]rune(s))) * 10 }

	tests := []struct {
		name     string
		in       string
		maxWidth float64
		expected string
	}{
		{"fits", "short", 100, "short"},
		{"truncated", "abcdefghijklmnop", 100, "abcdefg..."},
		{"nothing fits", "abcdef", 20, "..."},
		{"normalized before measuring", "cafe\u0301", 40, "caf\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitLabel(tt.in, tt.maxWidth, measure); got != tt.expected {
				t.Errorf("fitLabel(%q, %v) = %q, want %q", tt.in, tt.maxWidth, got, tt.expected)
			}
		})
	}
}
