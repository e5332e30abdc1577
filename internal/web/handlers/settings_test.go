package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/batch-collage/internal/config"
)

func TestSettingsHandler_Get(t *testing.T) {
	handler := NewSettingsHandler(testWorkspace(t))

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var result config.Settings
	parseJSONResponse(t, recorder, &result)
	if result.FrameSize != 20 || result.PhotosPerCollage != 2 || result.ShowFilenames {
		t.Errorf("unexpected settings %+v", result)
	}
}

func TestSettingsHandler_Update(t *testing.T) {
	ws := testWorkspace(t, "a", "b", "c")
	handler := NewSettingsHandler(ws)

	recorder := httptest.NewRecorder()
	handler.Update(recorder, jsonRequest(t, http.MethodPut, "/api/v1/settings", map[string]any{
		"photos_per_collage": 4,
		"show_filenames":     true,
	}))

	assertStatusCode(t, recorder, http.StatusOK)

	var result config.Settings
	parseJSONResponse(t, recorder, &result)
	if result.PhotosPerCollage != 4 || !result.ShowFilenames || result.FrameSize != 20 {
		t.Errorf("unexpected settings %+v", result)
	}
	if got := len(ws.Collages()); got != 1 {
		t.Errorf("expected 1 collage after update, got %d", got)
	}
}

func TestSettingsHandler_UpdateInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"frame too large", `{"frame_size": 101}`},
		{"negative frame", `{"frame_size": -1}`},
		{"zero batch size", `{"photos_per_collage": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := testWorkspace(t)
			handler := NewSettingsHandler(ws)

			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(tt.body))
			handler.Update(recorder, req)

			assertStatusCode(t, recorder, http.StatusBadRequest)
			if ws.Settings().FrameSize != 20 || ws.Settings().PhotosPerCollage != 2 {
				t.Errorf("settings changed: %+v", ws.Settings())
			}
		})
	}
}

func TestSettingsHandler_UpdateBadBody(t *testing.T) {
	handler := NewSettingsHandler(testWorkspace(t))

	recorder := httptest.NewRecorder()
	handler.Update(recorder, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader("{")))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, errInvalidRequestBody)
}
