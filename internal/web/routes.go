package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/batch-collage/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	configHandler := handlers.NewConfigHandler(s.config)
	settingsHandler := handlers.NewSettingsHandler(s.workspace)
	photosHandler := handlers.NewPhotosHandler(s.workspace)
	collagesHandler := handlers.NewCollagesHandler(s.workspace)
	exportHandler := handlers.NewExportHandler(s.workspace)
	analyzeHandler := handlers.NewAnalyzeHandler(s.workspace)
	eventsHandler := handlers.NewEventsHandler(s.workspace)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Event stream stays open, so it is kept out of the timeout group.
		r.Get("/events", eventsHandler.Events)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(5 * time.Minute))

			r.Get("/config", configHandler.Get)

			// Settings
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)

			// Photos
			r.Get("/photos", photosHandler.List)
			r.Post("/photos", photosHandler.Upload)
			r.Post("/photos/swap", photosHandler.Swap)
			r.Delete("/photos/{id}", photosHandler.Delete)
			r.Post("/photos/{id}/rotate", photosHandler.Rotate)
			r.Put("/photos/{id}/offset", photosHandler.Offset)

			// Collages
			r.Get("/collages", collagesHandler.List)
			r.Get("/collages/{index}/image", collagesHandler.Image)
			r.Put("/collages/{index}/mode", collagesHandler.SetMode)
			r.Post("/collages/{index}/pointer", collagesHandler.Pointer)
			r.Post("/collages/{index}/dragstart", collagesHandler.DragStart)
			r.Post("/collages/{index}/drop", collagesHandler.Drop)
			r.Post("/collages/{index}/dragend", collagesHandler.DragEnd)

			// Export
			r.Get("/export", exportHandler.Export)

			// Theme suggestion
			r.Post("/analyze", analyzeHandler.Analyze)
		})
	})

	s.router.Get("/", s.serveIndex)
}

// serveIndex serves a placeholder page pointing at the API.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Batch Collage</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #f1f5f9; color: #1e293b; }
        .container { text-align: center; }
        h1 { color: #475569; }
        a { color: #0ea5e9; }
        code { background: #e2e8f0; padding: 2px 8px; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Batch Collage</h1>
        <p>Upload photos with <code>POST /api/v1/photos</code> and fetch collages from <code>/api/v1/collages</code>.</p>
        <p>API is available at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
