package handlers

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/batch-collage/internal/photo"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

// multipartRequest builds an upload request with the given files.
func multipartRequest(t *testing.T, path string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(data)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPhotosHandler_List(t *testing.T) {
	handler := NewPhotosHandler(testWorkspace(t, "a", "b"))

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/photos", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var result PhotosResponse
	parseJSONResponse(t, recorder, &result)
	if len(result.Photos) != 2 || result.Photos[0].ID != "a" || result.Photos[1].Name != "b.png" {
		t.Errorf("unexpected photos %+v", result.Photos)
	}
	if result.Pending != 0 {
		t.Errorf("expected no pending photos, got %d", result.Pending)
	}
}

func TestPhotosHandler_UploadAndWait(t *testing.T) {
	ws := testWorkspace(t)
	handler := NewPhotosHandler(ws)

	req := multipartRequest(t, "/api/v1/photos?wait=true", map[string][]byte{
		"wide.png":  pngData(t, 60, 30),
		"notes.txt": []byte("hello"),
	})
	recorder := httptest.NewRecorder()
	handler.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var result workspace.ImportResult
	parseJSONResponse(t, recorder, &result)
	if len(result.Added) != 1 || len(result.Errors) != 1 || result.Errors[0].Name != "notes.txt" {
		t.Errorf("unexpected import result %+v", result)
	}

	state := ws.State()
	if len(state.Photos) != 1 || state.Photos[0].NaturalWidth != 60 {
		t.Errorf("unexpected state %+v", state.Photos)
	}
}

func TestPhotosHandler_UploadAsync(t *testing.T) {
	handler := NewPhotosHandler(testWorkspace(t))

	req := multipartRequest(t, "/api/v1/photos", map[string][]byte{"a.png": pngData(t, 10, 10)})
	recorder := httptest.NewRecorder()
	handler.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusAccepted)

	var result map[string][]string
	parseJSONResponse(t, recorder, &result)
	if len(result["ids"]) != 1 {
		t.Errorf("expected 1 id, got %v", result["ids"])
	}
}

func TestPhotosHandler_UploadNoFiles(t *testing.T) {
	handler := NewPhotosHandler(testWorkspace(t))

	recorder := httptest.NewRecorder()
	handler.Upload(recorder, multipartRequest(t, "/api/v1/photos", nil))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "no files provided")
}

func TestPhotosHandler_Delete(t *testing.T) {
	ws := testWorkspace(t, "a", "b")
	handler := NewPhotosHandler(ws)

	tests := []struct {
		id       string
		expected int
	}{
		{"a", http.StatusNoContent},
		{"a", http.StatusNotFound},
		{"missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/photos/"+tt.id, nil),
			map[string]string{"id": tt.id})
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)
		assertStatusCode(t, recorder, tt.expected)
	}

	if got := len(ws.State().Photos); got != 1 {
		t.Errorf("expected 1 photo left, got %d", got)
	}
}

func TestPhotosHandler_Rotate(t *testing.T) {
	handler := NewPhotosHandler(testWorkspace(t, "a"))

	req := requestWithChiParams(httptest.NewRequest(http.MethodPost, "/api/v1/photos/a/rotate", nil),
		map[string]string{"id": "a"})
	recorder := httptest.NewRecorder()
	handler.Rotate(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var result photo.Photo
	parseJSONResponse(t, recorder, &result)
	if result.Rotation != photo.Rotate90 {
		t.Errorf("expected rotation 90, got %d", result.Rotation)
	}
}

func TestPhotosHandler_Offset(t *testing.T) {
	ws := testWorkspace(t, "a")
	handler := NewPhotosHandler(ws)

	req := requestWithChiParams(jsonRequest(t, http.MethodPut, "/api/v1/photos/a/offset", OffsetRequest{X: 15, Y: -5}),
		map[string]string{"id": "a"})
	recorder := httptest.NewRecorder()
	handler.Offset(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	p, _ := ws.Photo("a")
	if p.OffsetX != 15 || p.OffsetY != -5 {
		t.Errorf("unexpected offset (%v, %v)", p.OffsetX, p.OffsetY)
	}

	req = requestWithChiParams(jsonRequest(t, http.MethodPut, "/api/v1/photos/x/offset", OffsetRequest{X: 1}),
		map[string]string{"id": "x"})
	recorder = httptest.NewRecorder()
	handler.Offset(recorder, req)
	assertStatusCode(t, recorder, http.StatusNotFound)
}

func TestPhotosHandler_Swap(t *testing.T) {
	ws := testWorkspace(t, "a", "b", "c")
	handler := NewPhotosHandler(ws)

	recorder := httptest.NewRecorder()
	handler.Swap(recorder, jsonRequest(t, http.MethodPost, "/api/v1/photos/swap", SwapRequest{ID1: "a", ID2: "c"}))

	assertStatusCode(t, recorder, http.StatusOK)
	var result map[string]bool
	parseJSONResponse(t, recorder, &result)
	if !result["swapped"] {
		t.Error("expected swap")
	}
	if got := ws.State().Photos[0].ID; got != "c" {
		t.Errorf("expected c first, got %s", got)
	}

	recorder = httptest.NewRecorder()
	handler.Swap(recorder, jsonRequest(t, http.MethodPost, "/api/v1/photos/swap", SwapRequest{ID1: "a"}))
	assertStatusCode(t, recorder, http.StatusBadRequest)
}
