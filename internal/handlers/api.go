package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/interfaces"
)

type APIHandler struct {
	config    *common.Config
	parser    interfaces.ParserService
	store     interfaces.ResultStore
	startTime time.Time
	logger    arbor.ILogger
}

func NewAPIHandler(config *common.Config, parser interfaces.ParserService, store interfaces.ResultStore) *APIHandler {
	return &APIHandler{
		config:    config,
		parser:    parser,
		store:     store,
		startTime: time.Now(),
		logger:    common.GetLogger(),
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// StatusHandler returns runtime status: uptime, stored result count and
// parser limits.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "running",
		"environment":      h.config.Environment,
		"uptime_seconds":   int64(time.Since(h.startTime).Seconds()),
		"stored_results":   h.store.Count(),
		"max_file_size_mb": h.config.Parser.MaxFileSizeMB,
		"ocr_enabled":      h.config.Parser.OCREnabled,
	})
}

// FormatsHandler lists the file extensions accepted for upload.
func (h *APIHandler) FormatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"extensions": h.parser.SupportedExtensions(),
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
