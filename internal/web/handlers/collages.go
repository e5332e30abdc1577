package handlers

import (
	"net/http"

	"github.com/kozaktomas/batch-collage/internal/export"
	"github.com/kozaktomas/batch-collage/internal/interaction"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

// CollagesHandler handles collage rendering and pointer interaction.
type CollagesHandler struct {
	workspace *workspace.Workspace
}

// NewCollagesHandler creates a new collages handler.
func NewCollagesHandler(ws *workspace.Workspace) *CollagesHandler {
	return &CollagesHandler{workspace: ws}
}

// List returns every collage with its photos, mode and layout.
func (h *CollagesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.workspace.Collages())
}

// Image renders a collage, including any swap drag in progress.
func (h *CollagesHandler) Image(w http.ResponseWriter, r *http.Request) {
	index, ok := collageIndex(w, r)
	if !ok {
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	img, err := h.workspace.Render(index)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	if err := export.Encode(w, img, format); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode collage")
	}
}

// ModeRequest switches the interaction mode.
type ModeRequest struct {
	Mode interaction.Mode `json:"mode"`
}

// SetMode switches a collage between pan and swap.
func (h *CollagesHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	index, ok := collageIndex(w, r)
	if !ok {
		return
	}
	var req ModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	changed, err := h.workspace.SetMode(index, req.Mode)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !changed {
		respondError(w, http.StatusConflict, "gesture in progress")
		return
	}
	respondJSON(w, http.StatusOK, req)
}

// PointerRequest is a pointer event in canvas pixels.
type PointerRequest struct {
	Action workspace.PointerAction `json:"action"`
	X      float64                 `json:"x"`
	Y      float64                 `json:"y"`
}

// Pointer delivers a pointer event to a collage.
func (h *CollagesHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	index, ok := collageIndex(w, r)
	if !ok {
		return
	}
	var req PointerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	repaint, err := h.workspace.Pointer(index, req.Action, req.X, req.Y)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"repaint": repaint})
}

// PositionRequest is a point in canvas pixels.
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DragStart begins dragging a photo towards another collage.
func (h *CollagesHandler) DragStart(w http.ResponseWriter, r *http.Request) {
	index, ok := collageIndex(w, r)
	if !ok {
		return
	}
	var req PositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, started, err := h.workspace.DragStart(index, req.X, req.Y)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"started": started, "id": id})
}

// Drop completes a drag on a collage.
func (h *CollagesHandler) Drop(w http.ResponseWriter, r *http.Request) {
	index, ok := collageIndex(w, r)
	if !ok {
		return
	}
	var req PositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	swapped, err := h.workspace.Drop(index, req.X, req.Y)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"swapped": swapped})
}

// DragEnd finishes a drag that started on a collage.
func (h *CollagesHandler) DragEnd(w http.ResponseWriter, r *http.Request) {
	index, ok := collageIndex(w, r)
	if !ok {
		return
	}
	if err := h.workspace.DragEnd(index); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
