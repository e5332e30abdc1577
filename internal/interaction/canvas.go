// Package interaction turns pointer and drag events on a collage canvas into
// pan and swap edits.
//
// A Canvas is not safe for concurrent use; the workspace serializes every
// event together with the edits it produces.
package interaction

import (
	"github.com/kozaktomas/batch-collage/internal/compositor"
	"github.com/kozaktomas/batch-collage/internal/crop"
	"github.com/kozaktomas/batch-collage/internal/layout"
	"github.com/kozaktomas/batch-collage/internal/photo"
)

// Sink receives the edits produced by gestures.
type Sink interface {
	UpdatePhoto(p photo.Photo)
	SwapPhotos(id1, id2 string)
}

// DragSession is an open pointer gesture on one cell.
type DragSession struct {
	PhotoIndex     int
	StartX         float64
	StartY         float64
	InitialOffsetX float64
	InitialOffsetY float64
	CurrentX       float64
	CurrentY       float64
}

// Canvas holds the interaction state of one rendered collage.
type Canvas struct {
	sink    Sink
	carrier *Carrier

	mode    Mode
	batch   []photo.Photo
	layout  layout.Layout
	session *DragSession
	// dragging is set between DragStart and DragEnd of a cross-canvas drag.
	dragging bool
}

// NewCanvas creates a canvas in pan mode. Canvases that share a carrier can
// swap photos with each other.
func NewCanvas(sink Sink, carrier *Carrier) *Canvas {
	if carrier == nil {
		carrier = NewCarrier()
	}
	return &Canvas{
		sink:    sink,
		carrier: carrier,
		mode:    ModePan,
	}
}

// Sync records the batch and layout of the latest render. Hit-testing always
// uses the most recently synced layout.
func (c *Canvas) Sync(batch []photo.Photo, l layout.Layout) {
	c.batch = batch
	c.layout = l
	if c.session != nil && c.session.PhotoIndex >= len(batch) {
		c.session = nil
	}
}

// Mode returns the current interaction mode.
func (c *Canvas) Mode() Mode {
	return c.mode
}

// SetMode switches the interaction mode. It is refused while a gesture is
// open so a pan cannot turn into a swap half way through.
func (c *Canvas) SetMode(m Mode) bool {
	if c.Active() {
		return false
	}
	c.mode = m
	return true
}

// Active reports whether a pointer gesture or drag is in progress.
func (c *Canvas) Active() bool {
	return c.session != nil || c.dragging
}

// Session returns a copy of the open gesture, if any.
func (c *Canvas) Session() (DragSession, bool) {
	if c.session == nil {
		return DragSession{}, false
	}
	return *c.session, true
}

func (c *Canvas) hitTest(x, y float64) int {
	return c.layout.HitTest(x, y, len(c.batch))
}

// PointerDown opens a gesture on the cell under (x, y). It reports false when
// the pointer is outside every cell.
func (c *Canvas) PointerDown(x, y float64) bool {
	idx := c.hitTest(x, y)
	if idx < 0 {
		return false
	}
	p := c.batch[idx]
	c.session = &DragSession{
		PhotoIndex:     idx,
		StartX:         x,
		StartY:         y,
		InitialOffsetX: p.OffsetX,
		InitialOffsetY: p.OffsetY,
		CurrentX:       x,
		CurrentY:       y,
	}
	return true
}

// PointerMove advances the open gesture. In pan mode it commits the new
// offset of the dragged photo to the sink. It reports whether the canvas
// needs a repaint.
func (c *Canvas) PointerMove(x, y float64) bool {
	s := c.session
	if s == nil {
		return false
	}
	s.CurrentX = x
	s.CurrentY = y

	if c.mode != ModePan {
		return true
	}

	p := c.batch[s.PhotoIndex]
	dx, dy := crop.RotateDelta(x-s.StartX, y-s.StartY, p.Rotation)
	natW, natH := p.Size()
	scale := crop.PanScale(natW, natH, c.layout.CellWidth, c.layout.CellHeight, p.Rotation)

	p.OffsetX = s.InitialOffsetX + dx*scale
	p.OffsetY = s.InitialOffsetY + dy*scale
	c.batch[s.PhotoIndex] = p
	c.sink.UpdatePhoto(p)
	return true
}

// PointerUp closes the open gesture. In swap mode, releasing over a different
// cell swaps the two photos.
func (c *Canvas) PointerUp(x, y float64) bool {
	s := c.session
	if s == nil {
		return false
	}
	c.session = nil

	if c.mode == ModeSwap {
		target := c.hitTest(x, y)
		if target >= 0 && target != s.PhotoIndex {
			c.sink.SwapPhotos(c.batch[s.PhotoIndex].ID, c.batch[target].ID)
		}
	}
	return true
}

// PointerLeave abandons the open gesture without swapping. Pan edits already
// committed are kept.
func (c *Canvas) PointerLeave() bool {
	if c.session == nil {
		return false
	}
	c.session = nil
	return true
}

// DragStart begins a cross-canvas drag from the cell under (x, y) by
// publishing its photo id to the carrier. Only swap mode allows it.
func (c *Canvas) DragStart(x, y float64) (string, bool) {
	if c.mode != ModeSwap {
		return "", false
	}
	idx := c.hitTest(x, y)
	if idx < 0 {
		return "", false
	}
	id := c.batch[idx].ID
	c.carrier.Publish(id)
	c.dragging = true
	// The drag replaces any pointer gesture on the source canvas.
	c.session = nil
	return id, true
}

// Drop completes a cross-canvas drag on this canvas. The target is the cell
// under (x, y), or the first photo of the canvas when the drop lands outside
// every cell. It reports whether a swap was requested.
func (c *Canvas) Drop(x, y float64) bool {
	if c.mode != ModeSwap {
		return false
	}
	sourceID, ok := c.carrier.Take()
	if !ok || len(c.batch) == 0 {
		return false
	}

	target := c.hitTest(x, y)
	if target < 0 {
		target = 0
	}
	targetID := c.batch[target].ID
	if targetID == sourceID {
		return false
	}
	c.sink.SwapPhotos(sourceID, targetID)
	return true
}

// DragEnd finishes a drag that started on this canvas, whether or not it was
// dropped anywhere.
func (c *Canvas) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.carrier.Clear()
}

// Preview returns the swap drag preview to render, or nil.
func (c *Canvas) Preview() *compositor.DragPreview {
	if c.mode != ModeSwap || c.session == nil {
		return nil
	}
	return &compositor.DragPreview{
		Index: c.session.PhotoIndex,
		X:     c.session.CurrentX,
		Y:     c.session.CurrentY,
	}
}
