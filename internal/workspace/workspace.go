// Package workspace ties the photo collection, the collage canvases and the
// renderer together behind a single lock.
//
// Every mutation, pointer event and render goes through the workspace mutex,
// so edits are applied one at a time in arrival order and renders always see
// a consistent collection.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/kozaktomas/batch-collage/internal/ai"
	"github.com/kozaktomas/batch-collage/internal/collection"
	"github.com/kozaktomas/batch-collage/internal/compositor"
	"github.com/kozaktomas/batch-collage/internal/config"
	"github.com/kozaktomas/batch-collage/internal/constants"
	"github.com/kozaktomas/batch-collage/internal/interaction"
	"github.com/kozaktomas/batch-collage/internal/loader"
	"github.com/kozaktomas/batch-collage/internal/photo"
)

// ErrNoCollage is returned for a collage index outside the current batches.
var ErrNoCollage = errors.New("collage not found")

// Workspace is the editing session: an ordered collection of photos split
// into collages.
type Workspace struct {
	mu sync.Mutex

	coll       *collection.Collection
	settings   config.Settings
	canvasSize int

	compositor *compositor.Compositor
	loader     *loader.Loader
	suggester  *ai.Suggester

	carrier  *interaction.Carrier
	canvases []*interaction.Canvas
	pending  map[string]struct{}

	events *Broadcaster
}

// Option configures a Workspace.
type Option func(*workspaceOptions)

type workspaceOptions struct {
	settings    config.Settings
	canvasSize  int
	concurrency int
	suggester   *ai.Suggester
}

// WithSettings sets the initial collage settings.
func WithSettings(s config.Settings) Option {
	return func(o *workspaceOptions) {
		o.settings = s
	}
}

// WithCanvasSize sets the side length of every collage in pixels.
func WithCanvasSize(size int) Option {
	return func(o *workspaceOptions) {
		if size > 0 {
			o.canvasSize = size
		}
	}
}

// WithDecodeConcurrency limits the number of images decoded at once.
func WithDecodeConcurrency(n int) Option {
	return func(o *workspaceOptions) {
		o.concurrency = n
	}
}

// WithSuggester sets the theme suggester.
func WithSuggester(s *ai.Suggester) Option {
	return func(o *workspaceOptions) {
		o.suggester = s
	}
}

// New creates an empty workspace.
func New(opts ...Option) (*Workspace, error) {
	o := workspaceOptions{
		settings: config.Settings{
			FrameSize:        constants.DefaultFrameSize,
			PhotosPerCollage: constants.DefaultPhotosPerCollage,
		},
		canvasSize:  constants.CanvasSize,
		concurrency: constants.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	if o.suggester == nil {
		o.suggester = ai.NewSuggester(nil, config.DefaultTheme(), 0)
	}

	comp, err := compositor.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create compositor: %w", err)
	}

	w := &Workspace{
		settings:   o.settings,
		canvasSize: o.canvasSize,
		compositor: comp,
		suggester:  o.suggester,
		carrier:    interaction.NewCarrier(),
		pending:    make(map[string]struct{}),
		events:     &Broadcaster{},
	}
	w.coll = collection.New(collection.WithReleaseHook(func(p photo.Photo) {
		slog.Debug("Released photo", "id", p.ID, "name", p.Name)
	}))
	w.loader = loader.New(
		loader.WithConcurrency(o.concurrency),
		loader.WithProgress(w.importProgress),
	)
	return w, nil
}

// Events returns the broadcaster carrying change notifications.
func (w *Workspace) Events() *Broadcaster {
	return w.events
}

func (w *Workspace) options() compositor.Options {
	return compositor.Options{
		CanvasSize:    w.canvasSize,
		FrameSize:     w.settings.FrameSize,
		ShowFilenames: w.settings.ShowFilenames,
	}
}

// notifyIfChanged sends a change event when the collection moved past
// revision before. Must be called with w.mu held.
func (w *Workspace) notifyIfChanged(before uint64) bool {
	rev := w.coll.Revision()
	if rev == before {
		return false
	}
	w.events.SendEvent(Event{Type: EventChanged, Data: map[string]any{
		"revision": rev,
		"photos":   w.coll.Len(),
		"collages": len(w.syncCanvases()),
	}})
	return true
}

// mutate runs fn under the lock and notifies listeners of any change.
func (w *Workspace) mutate(fn func() bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	before := w.coll.Revision()
	ok := fn()
	w.notifyIfChanged(before)
	return ok
}

// AddPhotos appends already decoded photos.
func (w *Workspace) AddPhotos(photos ...photo.Photo) {
	w.mutate(func() bool {
		w.coll.Add(photos...)
		return true
	})
}

// Remove deletes a photo. Removing a photo that is still decoding makes its
// import discard it. It reports whether anything was removed.
func (w *Workspace) Remove(id string) bool {
	return w.mutate(func() bool {
		if _, ok := w.pending[id]; ok {
			delete(w.pending, id)
			return true
		}
		return w.coll.Remove(id)
	})
}

// Rotate turns a photo a quarter turn clockwise.
func (w *Workspace) Rotate(id string) bool {
	return w.mutate(func() bool {
		return w.coll.Rotate(id)
	})
}

// SetOffset sets the pan offset of a photo in source pixels.
func (w *Workspace) SetOffset(id string, x, y float64) bool {
	return w.mutate(func() bool {
		p, ok := w.coll.Get(id)
		if !ok {
			return false
		}
		p.OffsetX = x
		p.OffsetY = y
		return w.coll.Update(p)
	})
}

// Swap exchanges the positions of two photos, possibly across collages.
func (w *Workspace) Swap(id1, id2 string) bool {
	return w.mutate(func() bool {
		return w.coll.Swap(id1, id2)
	})
}

// Photo returns the photo with the given id.
func (w *Workspace) Photo(id string) (photo.Photo, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.coll.Get(id)
}

// State returns a snapshot of the photo sequence without pixel data.
func (w *Workspace) State() collection.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.coll.State()
}

// Pending returns the number of photos still decoding.
func (w *Workspace) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Settings returns the current collage settings.
func (w *Workspace) Settings() config.Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// SetSettings replaces the collage settings. Invalid settings are rejected
// with config.ErrInvalidSettings and leave the workspace unchanged.
func (w *Workspace) SetSettings(s config.Settings) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.setSettings(s)
}

// UpdateSettings applies a partial settings change and returns the result.
func (w *Workspace) UpdateSettings(p config.SettingsPatch) (config.Settings, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := p.Apply(w.settings)
	if err := w.setSettings(next); err != nil {
		return config.Settings{}, err
	}
	return next, nil
}

func (w *Workspace) setSettings(s config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s == w.settings {
		return nil
	}
	w.settings = s
	batches := w.syncCanvases()
	w.events.SendEvent(Event{Type: EventSettings, Data: map[string]any{
		"settings": s,
		"collages": len(batches),
	}})
	return nil
}

// Batches returns the photos of every collage in order.
func (w *Workspace) Batches() [][]photo.Photo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncCanvases()
}

// Render paints collage index, including any swap drag in progress on it.
func (w *Workspace) Render(index int) (*image.RGBA, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, batch, err := w.prepare(index)
	if err != nil {
		return nil, err
	}
	img, l := w.compositor.Render(batch, w.options(), c.Preview())
	c.Sync(batch, l)
	return img, nil
}

// Snapshot renders every collage from the same collection state. Drag
// previews are not included.
func (w *Workspace) Snapshot() []image.Image {
	w.mu.Lock()
	defer w.mu.Unlock()

	batches := w.syncCanvases()
	opts := w.options()
	images := make([]image.Image, len(batches))
	for i, batch := range batches {
		img, _ := w.compositor.Render(batch, opts, nil)
		images[i] = img
	}
	return images
}

// SuggestTheme proposes a title and look for the collection from its first
// photos. It always returns a suggestion.
func (w *Workspace) SuggestTheme(ctx context.Context) ai.ThemeAnalysis {
	w.mu.Lock()
	photos := w.coll.Photos()
	w.mu.Unlock()

	sample := make([]image.Image, 0, constants.AnalysisSampleSize)
	for _, p := range photos[:min(len(photos), constants.AnalysisSampleSize)] {
		sample = append(sample, p.Image)
	}
	return w.suggester.Suggest(ctx, sample)
}

// ThemeUsage returns the tokens spent on theme suggestions so far.
func (w *Workspace) ThemeUsage() ai.Usage {
	return w.suggester.Usage()
}

// SuggesterEnabled reports whether theme suggestions come from an analyzer.
func (w *Workspace) SuggesterEnabled() bool {
	return w.suggester.Enabled()
}
