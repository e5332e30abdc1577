package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kozaktomas/batch-collage/internal/export"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

// ExportHandler handles collage downloads.
type ExportHandler struct {
	workspace *workspace.Workspace
}

// NewExportHandler creates a new export handler.
func NewExportHandler(ws *workspace.Workspace) *ExportHandler {
	return &ExportHandler{workspace: ws}
}

// Export downloads every collage as a ZIP archive, or a single collage when
// the index query parameter is set.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	images := h.workspace.Snapshot()
	if len(images) == 0 {
		respondError(w, http.StatusNotFound, "no collages to export")
		return
	}

	if s := r.URL.Query().Get("index"); s != "" {
		index, err := strconv.Atoi(s)
		if err != nil || index < 0 || index >= len(images) {
			respondError(w, http.StatusNotFound, workspace.ErrNoCollage.Error())
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(index, format)))
		if err := export.Encode(w, images[index], format); err != nil {
			slog.Error("Failed to encode collage", "index", index, "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="collages.zip"`)
	if err := export.WriteArchive(w, images, format); err != nil {
		slog.Error("Failed to write collage archive", "error", err)
		return
	}
	slog.Info("Exported collages", "count", len(images), "format", string(format))
}
