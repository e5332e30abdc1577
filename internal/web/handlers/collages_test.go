package handlers

import (
	"image/png"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"testing"

	"github.com/kozaktomas/batch-collage/internal/interaction"
	"github.com/kozaktomas/batch-collage/internal/workspace"
)

func collageRequest(t *testing.T, method, action string, index int, body any) *http.Request {
	t.Helper()
	path := "/api/v1/collages/" + strconv.Itoa(index) + "/" + action
	var req *http.Request
	if body != nil {
		req = jsonRequest(t, method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return requestWithChiParams(req, map[string]string{"index": strconv.Itoa(index)})
}

func listCollages(t *testing.T, handler *CollagesHandler) []workspace.Collage {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/collages", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var collages []workspace.Collage
	parseJSONResponse(t, recorder, &collages)
	return collages
}

func photoOrder(ws *workspace.Workspace) []string {
	var ids []string
	for _, p := range ws.State().Photos {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestCollagesHandler_List(t *testing.T) {
	handler := NewCollagesHandler(testWorkspace(t, "a", "b", "c"))

	collages := listCollages(t, handler)
	if len(collages) != 2 {
		t.Fatalf("expected 2 collages, got %d", len(collages))
	}
	if !slices.Equal(collages[0].PhotoIDs, []string{"a", "b"}) || !slices.Equal(collages[1].PhotoIDs, []string{"c"}) {
		t.Errorf("unexpected photo ids %v %v", collages[0].PhotoIDs, collages[1].PhotoIDs)
	}
	if collages[0].Mode != interaction.ModePan || collages[0].Layout.Cols == 0 {
		t.Errorf("unexpected collage %+v", collages[0])
	}
}

func TestCollagesHandler_Image(t *testing.T) {
	handler := NewCollagesHandler(testWorkspace(t, "a", "b"))

	recorder := httptest.NewRecorder()
	handler.Image(recorder, collageRequest(t, http.MethodGet, "image", 0, nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")

	cfg, err := png.DecodeConfig(recorder.Body)
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 400 {
		t.Errorf("expected 400x400, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCollagesHandler_ImageErrors(t *testing.T) {
	handler := NewCollagesHandler(testWorkspace(t, "a"))

	recorder := httptest.NewRecorder()
	handler.Image(recorder, collageRequest(t, http.MethodGet, "image", 3, nil))
	assertStatusCode(t, recorder, http.StatusNotFound)

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/collages/x/image", nil),
		map[string]string{"index": "x"})
	recorder = httptest.NewRecorder()
	handler.Image(recorder, req)
	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "invalid collage index")

	req = requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/collages/0/image?format=gif", nil),
		map[string]string{"index": "0"})
	recorder = httptest.NewRecorder()
	handler.Image(recorder, req)
	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestCollagesHandler_SwapByPointer(t *testing.T) {
	ws := testWorkspace(t, "a", "b")
	handler := NewCollagesHandler(ws)

	recorder := httptest.NewRecorder()
	handler.SetMode(recorder, collageRequest(t, http.MethodPut, "mode", 0, map[string]string{"mode": "swap"}))
	assertStatusCode(t, recorder, http.StatusOK)

	l := listCollages(t, handler)[0].Layout
	x0, y0 := l.Cell(0).Center()
	x1, y1 := l.Cell(1).Center()

	for _, ev := range []PointerRequest{
		{Action: workspace.PointerDown, X: x0, Y: y0},
		{Action: workspace.PointerMove, X: x1, Y: y1},
	} {
		recorder = httptest.NewRecorder()
		handler.Pointer(recorder, collageRequest(t, http.MethodPost, "pointer", 0, ev))
		assertStatusCode(t, recorder, http.StatusOK)
	}

	// Mode changes are refused mid-gesture.
	recorder = httptest.NewRecorder()
	handler.SetMode(recorder, collageRequest(t, http.MethodPut, "mode", 0, map[string]string{"mode": "pan"}))
	assertStatusCode(t, recorder, http.StatusConflict)

	recorder = httptest.NewRecorder()
	handler.Pointer(recorder, collageRequest(t, http.MethodPost, "pointer", 0,
		PointerRequest{Action: workspace.PointerUp, X: x1, Y: y1}))
	assertStatusCode(t, recorder, http.StatusOK)

	if got := photoOrder(ws); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("expected [b a], got %v", got)
	}
}

func TestCollagesHandler_PointerErrors(t *testing.T) {
	handler := NewCollagesHandler(testWorkspace(t, "a"))

	recorder := httptest.NewRecorder()
	handler.Pointer(recorder, collageRequest(t, http.MethodPost, "pointer", 0,
		PointerRequest{Action: "tap", X: 1, Y: 1}))
	assertStatusCode(t, recorder, http.StatusBadRequest)

	recorder = httptest.NewRecorder()
	handler.SetMode(recorder, collageRequest(t, http.MethodPut, "mode", 0, map[string]string{"mode": "zoom"}))
	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestCollagesHandler_DragAcrossCollages(t *testing.T) {
	ws := testWorkspace(t, "a", "b", "c", "d")
	handler := NewCollagesHandler(ws)

	for i := range 2 {
		recorder := httptest.NewRecorder()
		handler.SetMode(recorder, collageRequest(t, http.MethodPut, "mode", i, map[string]string{"mode": "swap"}))
		assertStatusCode(t, recorder, http.StatusOK)
	}

	collages := listCollages(t, handler)
	sx, sy := collages[0].Layout.Cell(0).Center()

	recorder := httptest.NewRecorder()
	handler.DragStart(recorder, collageRequest(t, http.MethodPost, "dragstart", 0, PositionRequest{X: sx, Y: sy}))
	assertStatusCode(t, recorder, http.StatusOK)
	var started map[string]any
	parseJSONResponse(t, recorder, &started)
	if started["id"] != "a" || started["started"] != true {
		t.Fatalf("unexpected drag start %v", started)
	}

	// Dropping outside every cell targets the first photo of the collage.
	recorder = httptest.NewRecorder()
	handler.Drop(recorder, collageRequest(t, http.MethodPost, "drop", 1, PositionRequest{X: 1, Y: 1}))
	assertStatusCode(t, recorder, http.StatusOK)

	recorder = httptest.NewRecorder()
	handler.DragEnd(recorder, collageRequest(t, http.MethodPost, "dragend", 0, nil))
	assertStatusCode(t, recorder, http.StatusNoContent)

	if got := photoOrder(ws); !slices.Equal(got, []string{"c", "b", "a", "d"}) {
		t.Errorf("expected [c b a d], got %v", got)
	}
}
