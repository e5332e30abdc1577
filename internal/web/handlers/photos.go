package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/batch-collage/internal/collection"
	"github.com/kozaktomas/batch-collage/internal/constants"
	"github.com/kozaktomas/batch-collage/internal/loader"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

// PhotosHandler handles photo endpoints.
type PhotosHandler struct {
	workspace *workspace.Workspace
}

// NewPhotosHandler creates a new photos handler.
func NewPhotosHandler(ws *workspace.Workspace) *PhotosHandler {
	return &PhotosHandler{workspace: ws}
}

// PhotosResponse is the photo list.
type PhotosResponse struct {
	collection.State
	Pending int `json:"pending"`
}

// List returns the ordered photos.
func (h *PhotosHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, PhotosResponse{
		State:   h.workspace.State(),
		Pending: h.workspace.Pending(),
	})
}

// readUploadedFiles reads multipart files into memory so they outlive the
// request while decoding.
func readUploadedFiles(files []*multipart.FileHeader) ([]loader.Source, error) {
	sources := make([]loader.Source, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %s", fileHeader.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %s", fileHeader.Filename)
		}
		sources = append(sources, loader.BytesSource(filepath.Base(fileHeader.Filename), data))
	}
	return sources, nil
}

// Upload imports photos from a multipart form. Decoding continues in the
// background unless wait=true is passed.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	sources, err := readUploadedFiles(files)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	imp := h.workspace.Import(context.WithoutCancel(r.Context()), sources)
	slog.Info("Import started", "files", len(sources))

	if r.URL.Query().Get("wait") != "true" {
		respondJSON(w, http.StatusAccepted, map[string]any{"ids": imp.IDs()})
		return
	}

	result, err := imp.Wait(r.Context())
	if err != nil {
		respondError(w, http.StatusRequestTimeout, "import did not finish")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Delete removes a photo, including one that is still decoding.
func (h *PhotosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.workspace.Remove(id) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	slog.Debug("Photo removed", "id", sanitizeForLog(id))
	w.WriteHeader(http.StatusNoContent)
}

// Rotate turns a photo a quarter turn clockwise.
func (h *PhotosHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.workspace.Rotate(id) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	h.respondPhoto(w, id)
}

// OffsetRequest sets a pan offset in source pixels.
type OffsetRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset sets the pan offset of a photo.
func (h *PhotosHandler) Offset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req OffsetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.workspace.SetOffset(id, req.X, req.Y) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	h.respondPhoto(w, id)
}

// SwapRequest names two photos to exchange.
type SwapRequest struct {
	ID1 string `json:"id1"`
	ID2 string `json:"id2"`
}

// Swap exchanges the positions of two photos.
func (h *PhotosHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID1 == "" || req.ID2 == "" {
		respondError(w, http.StatusBadRequest, "id1 and id2 are required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{
		"swapped": h.workspace.Swap(req.ID1, req.ID2),
	})
}

func (h *PhotosHandler) respondPhoto(w http.ResponseWriter, id string) {
	p, ok := h.workspace.Photo(id)
	if !ok {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}
