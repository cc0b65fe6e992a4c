package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/interfaces"
)

// ResultsHandler serves stored parse results.
type ResultsHandler struct {
	store  interfaces.ResultStore
	events interfaces.EventService
	logger arbor.ILogger
}

func NewResultsHandler(store interfaces.ResultStore, events interfaces.EventService) *ResultsHandler {
	return &ResultsHandler{
		store:  store,
		events: events,
		logger: common.GetLogger(),
	}
}

// HandleList returns summaries of all stored results.
func (h *ResultsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   h.store.Count(),
		"results": h.store.List(),
	})
}

// HandleGet returns the full result for ?filename=.
func (h *ResultsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		WriteError(w, http.StatusBadRequest, "Missing filename parameter")
		return
	}

	result, ok := h.store.Get(filename)
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No result for %q", filename))
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// HandleDelete removes a stored result.
func (h *ResultsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		WriteError(w, http.StatusBadRequest, "Missing filename parameter")
		return
	}

	if !h.store.Delete(filename) {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No result for %q", filename))
		return
	}

	h.logger.Info().Str("filename", filename).Msg("Result deleted")
	if h.events != nil {
		h.events.Publish(r.Context(), interfaces.Event{
			Type:    interfaces.EventResultDeleted,
			Payload: map[string]string{"filename": filename},
		})
	}
	WriteSuccess(w, fmt.Sprintf("Deleted result for %s", filename))
}

// HandleClear removes all stored results.
func (h *ResultsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	count := h.store.Count()
	h.store.Clear()
	h.logger.Info().Int("count", count).Msg("All results cleared")
	WriteSuccess(w, fmt.Sprintf("Cleared %d results", count))
}
