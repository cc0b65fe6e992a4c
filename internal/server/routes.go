package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page (HTML template)
	mux.HandleFunc("/", s.app.PageHandler.ServePage("index.html", "home"))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Parsing
	mux.HandleFunc("/api/parse", s.app.ParseHandler.HandleParse)

	// API routes - Results
	mux.HandleFunc("/api/results", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			"GET":    s.app.ResultsHandler.HandleList,
			"DELETE": s.app.ResultsHandler.HandleClear,
		})
	})
	mux.HandleFunc("/api/result", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			"GET":    s.app.ResultsHandler.HandleGet,
			"DELETE": s.app.ResultsHandler.HandleDelete,
		})
	})

	// API routes - Export
	mux.HandleFunc("/api/export", s.app.ExportHandler.HandleExport)

	// API routes - Logs
	mux.HandleFunc("/api/logs/recent", s.app.WSHandler.GetRecentLogsHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)
	mux.HandleFunc("/api/formats", s.app.APIHandler.FormatsHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
