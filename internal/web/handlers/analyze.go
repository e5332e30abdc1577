package handlers

import (
	"net/http"

	"github.com/kozaktomas/batch-collage/internal/ai"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

// AnalyzeHandler handles theme suggestions.
type AnalyzeHandler struct {
	workspace *workspace.Workspace
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(ws *workspace.Workspace) *AnalyzeHandler {
	return &AnalyzeHandler{workspace: ws}
}

// AnalyzeResponse is a theme suggestion and where it came from.
type AnalyzeResponse struct {
	ai.ThemeAnalysis
	Analyzed bool      `json:"analyzed"`
	Usage    *ai.Usage `json:"usage,omitempty"`
}

// Analyze suggests a title and look for the current photos. It always
// answers with a suggestion; analysis failures yield the fallback.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if len(h.workspace.State().Photos) == 0 {
		respondError(w, http.StatusBadRequest, "no photos to analyze")
		return
	}

	resp := AnalyzeResponse{
		ThemeAnalysis: h.workspace.SuggestTheme(r.Context()),
		Analyzed:      h.workspace.SuggesterEnabled(),
	}
	if resp.Analyzed {
		usage := h.workspace.ThemeUsage()
		resp.Usage = &usage
	}
	respondJSON(w, http.StatusOK, resp)
}
