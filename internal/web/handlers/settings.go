package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kozaktomas/batch-collage/internal/config"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

// SettingsHandler handles the collage settings endpoints.
type SettingsHandler struct {
	workspace *workspace.Workspace
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(ws *workspace.Workspace) *SettingsHandler {
	return &SettingsHandler{workspace: ws}
}

// Get returns the current settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.workspace.Settings())
}

// Update applies a partial settings change.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch config.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	settings, err := h.workspace.UpdateSettings(patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	slog.Info("Settings updated",
		"frame_size", settings.FrameSize,
		"photos_per_collage", settings.PhotosPerCollage,
		"show_filenames", settings.ShowFilenames)
	respondJSON(w, http.StatusOK, settings)
}
