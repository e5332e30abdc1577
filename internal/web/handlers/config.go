package handlers

import (
	"net/http"

	"github.com/kozaktomas/batch-collage/internal/config"
	"github.com/kozaktomas/batch-collage/internal/constants"
	"github.com/kozaktomas/batch-collage/internal/export"
	"github.com/kozaktomas/batch-collage/internal/loader"
)

// ConfigHandler exposes the static limits and choices the UI needs to build
// its settings controls.
type ConfigHandler struct {
	config *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{config: cfg}
}

type ConfigResponse struct {
	CanvasSize     int             `json:"canvas_size"`
	MaxFrameSize   int             `json:"max_frame_size"`
	Presets        []int           `json:"presets"`
	Defaults       config.Settings `json:"defaults"`
	Extensions     []string        `json:"extensions"`
	Formats        []export.Format `json:"formats"`
	Providers      []ProviderInfo  `json:"providers"`
	ActiveProvider string          `json:"active_provider,omitempty"`
}

// ProviderInfo tells whether a theme provider has the credentials it needs.
// Local providers need none.
type ProviderInfo struct {
	Name      string `json:"name"`
	Model     string `json:"model,omitempty"`
	Available bool   `json:"available"`
}

func (h *ConfigHandler) providers() []ProviderInfo {
	c := h.config
	return []ProviderInfo{
		{Name: constants.ProviderOpenAI, Model: c.OpenAI.Model, Available: c.OpenAI.Token != ""},
		{Name: constants.ProviderGemini, Model: c.Gemini.Model, Available: c.Gemini.APIKey != ""},
		{Name: constants.ProviderOllama, Model: c.Ollama.Model, Available: true},
		{Name: constants.ProviderLlamaCpp, Model: c.LlamaCpp.Model, Available: true},
	}
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		CanvasSize:     h.config.Collage.CanvasSize,
		MaxFrameSize:   constants.MaxFrameSize,
		Presets:        h.config.Collage.Presets,
		Defaults:       h.config.Collage.Settings,
		Extensions:     loader.Extensions,
		Formats:        export.Formats,
		Providers:      h.providers(),
		ActiveProvider: h.config.AI.Provider,
	})
}
