package loader

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kozaktomas/batch-collage/internal/constants"
	"github.com/kozaktomas/batch-collage/internal/photo"
)

// Result is the outcome of decoding one source.
type Result struct {
	ID    string
	Name  string
	Photo photo.Photo
	Err   error
}

// Loader decodes sources concurrently with a bounded number of workers.
type Loader struct {
	concurrency int
	newID       func() string
	onProgress  func(done, total int)
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency limits the number of images decoded at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithIDFunc replaces the uuid generator.
func WithIDFunc(fn func() string) Option {
	return func(l *Loader) {
		l.newID = fn
	}
}

// WithProgress registers a callback invoked after each decoded source.
func WithProgress(fn func(done, total int)) Option {
	return func(l *Loader) {
		l.onProgress = fn
	}
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		concurrency: constants.DefaultConcurrency,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Task is a running decode of a set of sources.
type Task struct {
	ids     []string
	results []Result
	done    chan struct{}
}

// IDs returns the photo ids assigned to the sources, in source order. They
// are known before decoding finishes so callers can track pending photos.
func (t *Task) IDs() []string {
	return t.ids
}

// Done is closed when every source has been processed.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done. Results are in source
// order.
func (t *Task) Wait(ctx context.Context) ([]Result, error) {
	select {
	case <-t.done:
		return t.results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Start decodes the sources in the background. Cancelling ctx makes the
// remaining sources fail with the context error.
func (l *Loader) Start(ctx context.Context, sources []Source) *Task {
	t := &Task{
		ids:     make([]string, len(sources)),
		results: make([]Result, len(sources)),
		done:    make(chan struct{}),
	}
	for i := range sources {
		t.ids[i] = l.newID()
	}

	go func() {
		defer close(t.done)

		semaphore := make(chan struct{}, l.concurrency)
		var wg sync.WaitGroup
		var progressMu sync.Mutex
		processed := 0

		for i, src := range sources {
			wg.Add(1)
			go func(idx int, src Source) {
				defer wg.Done()

				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				res := Result{ID: t.ids[idx], Name: src.Name}
				if err := ctx.Err(); err != nil {
					res.Err = err
				} else {
					res.Photo, res.Err = decodeSource(res.ID, src)
				}
				t.results[idx] = res

				if l.onProgress != nil {
					progressMu.Lock()
					processed++
					l.onProgress(processed, len(sources))
					progressMu.Unlock()
				}
			}(i, src)
		}
		wg.Wait()
	}()

	return t
}

// Load decodes the sources and waits for the result.
func (l *Loader) Load(ctx context.Context, sources []Source) ([]Result, error) {
	return l.Start(ctx, sources).Wait(ctx)
}

// Photos splits results into decoded photos and decode errors.
func Photos(results []Result) ([]photo.Photo, []error) {
	var photos []photo.Photo
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		photos = append(photos, r.Photo)
	}
	return photos, errs
}
