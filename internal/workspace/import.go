package workspace

import (
	"context"
	"log/slog"

	"github.com/kozaktomas/batch-collage/internal/loader"
	"github.com/kozaktomas/batch-collage/internal/photo"
)

// ImportError is a source that could not be decoded.
type ImportError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ImportResult is the outcome of an import.
type ImportResult struct {
	Added     []string      `json:"added"`
	Discarded []string      `json:"discarded,omitempty"`
	Errors    []ImportError `json:"errors,omitempty"`
}

// Import is a running decode of new photos.
type Import struct {
	ids    []string
	done   chan struct{}
	result ImportResult
}

// IDs returns the ids the photos will have once decoded, in source order.
func (i *Import) IDs() []string {
	return i.ids
}

// Done is closed once the decoded photos have been added.
func (i *Import) Done() <-chan struct{} {
	return i.done
}

// Wait blocks until the import finishes or ctx is done.
func (i *Import) Wait(ctx context.Context) (ImportResult, error) {
	select {
	case <-i.done:
		return i.result, nil
	case <-ctx.Done():
		return ImportResult{}, ctx.Err()
	}
}

// Import decodes sources in the background and appends the decoded photos in
// source order. Photos removed while still decoding are discarded, and
// sources that fail to decode are reported without touching the collection.
func (w *Workspace) Import(ctx context.Context, sources []loader.Source) *Import {
	task := w.loader.Start(ctx, sources)
	imp := &Import{
		ids:  task.IDs(),
		done: make(chan struct{}),
	}

	w.mu.Lock()
	for _, id := range imp.ids {
		w.pending[id] = struct{}{}
	}
	w.mu.Unlock()

	w.events.SendEvent(Event{Type: EventImportStarted, Data: map[string]any{"ids": imp.ids}})

	go func() {
		defer close(imp.done)
		<-task.Done()
		results, _ := task.Wait(context.Background())
		imp.result = w.completeImport(results)
	}()
	return imp
}

func (w *Workspace) completeImport(results []loader.Result) ImportResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	before := w.coll.Revision()
	res := ImportResult{Added: []string{}}
	var added []photo.Photo
	for _, r := range results {
		_, stillPending := w.pending[r.ID]
		delete(w.pending, r.ID)

		switch {
		case r.Err != nil:
			slog.Warn("Failed to decode photo", "name", r.Name, "error", r.Err)
			res.Errors = append(res.Errors, ImportError{Name: r.Name, Error: r.Err.Error()})
		case !stillPending:
			res.Discarded = append(res.Discarded, r.ID)
		default:
			added = append(added, r.Photo)
			res.Added = append(res.Added, r.ID)
		}
	}
	w.coll.Add(added...)

	slog.Info("Import finished", "added", len(res.Added), "discarded", len(res.Discarded), "failed", len(res.Errors))
	w.events.SendEvent(Event{Type: EventImportCompleted, Data: res})
	w.notifyIfChanged(before)
	return res
}

func (w *Workspace) importProgress(done, total int) {
	w.events.SendEvent(Event{Type: EventImportProgress, Data: map[string]int{"done": done, "total": total}})
}
