package workspace

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/batch-collage/internal/interaction"
	"github.com/kozaktomas/batch-collage/internal/layout"
	"github.com/kozaktomas/batch-collage/internal/photo"
)

// ErrUnknownPointerAction is returned for a pointer action other than the
// PointerAction constants.
var ErrUnknownPointerAction = errors.New("unknown pointer action")

// PointerAction is the kind of pointer event delivered to a collage.
type PointerAction string

// Pointer actions.
const (
	PointerDown  PointerAction = "down"
	PointerMove  PointerAction = "move"
	PointerUp    PointerAction = "up"
	PointerLeave PointerAction = "leave"
)

// Collage describes one collage of the current partition.
type Collage struct {
	Index    int              `json:"index"`
	PhotoIDs []string         `json:"photo_ids"`
	Mode     interaction.Mode `json:"mode"`
	Active   bool             `json:"active"`
	Layout   layout.Layout    `json:"layout"`
}

// collectionSink applies canvas edits to the collection. Canvases only call
// it from workspace methods, so the lock is already held.
type collectionSink struct {
	w *Workspace
}

func (s collectionSink) UpdatePhoto(p photo.Photo) {
	s.w.coll.Update(p)
}

func (s collectionSink) SwapPhotos(id1, id2 string) {
	s.w.coll.Swap(id1, id2)
}

// syncCanvases partitions the collection and keeps one canvas per batch.
// Existing canvases keep their mode; canvases past the new batch count are
// dropped and any drag they started is ended. Must be called with w.mu held.
func (w *Workspace) syncCanvases() [][]photo.Photo {
	batches := w.coll.Partition(w.settings.PhotosPerCollage)
	if len(batches) == len(w.canvases) {
		return batches
	}

	if len(batches) < len(w.canvases) {
		for _, c := range w.canvases[len(batches):] {
			c.DragEnd()
		}
		w.canvases = w.canvases[:len(batches)]
		return batches
	}

	sink := collectionSink{w: w}
	for len(w.canvases) < len(batches) {
		w.canvases = append(w.canvases, interaction.NewCanvas(sink, w.carrier))
	}
	return batches
}

// prepare returns canvas index synced with the current batch and layout.
// Must be called with w.mu held.
func (w *Workspace) prepare(index int) (*interaction.Canvas, []photo.Photo, error) {
	batches := w.syncCanvases()
	if index < 0 || index >= len(batches) {
		return nil, nil, fmt.Errorf("%w: %d", ErrNoCollage, index)
	}
	c := w.canvases[index]
	batch := batches[index]
	c.Sync(batch, w.compositor.Plan(batch, w.options()))
	return c, batch, nil
}

// Collages describes every collage of the current partition.
func (w *Workspace) Collages() []Collage {
	w.mu.Lock()
	defer w.mu.Unlock()

	batches := w.syncCanvases()
	opts := w.options()
	collages := make([]Collage, len(batches))
	for i, batch := range batches {
		ids := make([]string, len(batch))
		for j, p := range batch {
			ids[j] = p.ID
		}
		c := w.canvases[i]
		collages[i] = Collage{
			Index:    i,
			PhotoIDs: ids,
			Mode:     c.Mode(),
			Active:   c.Active(),
			Layout:   w.compositor.Plan(batch, opts),
		}
	}
	return collages
}

// Mode returns the interaction mode of collage index.
func (w *Workspace) Mode(index int) (interaction.Mode, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.prepare(index)
	if err != nil {
		return interaction.ModePan, err
	}
	return c.Mode(), nil
}

// SetMode switches the interaction mode of collage index. It reports false
// when a gesture is in progress on that collage.
func (w *Workspace) SetMode(index int, m interaction.Mode) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.prepare(index)
	if err != nil {
		return false, err
	}
	if c.Mode() == m {
		return true, nil
	}
	if !c.SetMode(m) {
		return false, nil
	}
	w.events.SendEvent(Event{Type: EventMode, Data: map[string]any{"index": index, "mode": m}})
	return true, nil
}

// Pointer delivers a pointer event in canvas pixels to collage index. It
// reports whether the collage needs a repaint.
func (w *Workspace) Pointer(index int, action PointerAction, x, y float64) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.prepare(index)
	if err != nil {
		return false, err
	}

	before := w.coll.Revision()
	var repaint bool
	switch action {
	case PointerDown:
		repaint = c.PointerDown(x, y)
	case PointerMove:
		repaint = c.PointerMove(x, y)
	case PointerUp:
		repaint = c.PointerUp(x, y)
	case PointerLeave:
		repaint = c.PointerLeave()
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownPointerAction, action)
	}
	w.notifyIfChanged(before)
	return repaint, nil
}

// DragStart begins a drag of the photo under (x, y) on collage index towards
// another collage. It returns the dragged photo id.
func (w *Workspace) DragStart(index int, x, y float64) (string, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.prepare(index)
	if err != nil {
		return "", false, err
	}
	id, ok := c.DragStart(x, y)
	return id, ok, nil
}

// Drop completes a drag on collage index, swapping the dragged photo with the
// photo under (x, y). It reports whether photos were swapped.
func (w *Workspace) Drop(index int, x, y float64) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.prepare(index)
	if err != nil {
		return false, err
	}
	before := w.coll.Revision()
	c.Drop(x, y)
	return w.notifyIfChanged(before), nil
}

// DragEnd finishes a drag that started on collage index.
func (w *Workspace) DragEnd(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, _, err := w.prepare(index)
	if err != nil {
		return err
	}
	c.DragEnd()
	return nil
}
