package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/services/format"
)

// ExportHandler renders stored results as downloadable JSON, Markdown,
// HTML or PDF.
type ExportHandler struct {
	store  interfaces.ResultStore
	pdf    *format.PDFService
	logger arbor.ILogger
}

func NewExportHandler(store interfaces.ResultStore, pdf *format.PDFService) *ExportHandler {
	return &ExportHandler{
		store:  store,
		pdf:    pdf,
		logger: common.GetLogger(),
	}
}

// HandleExport serves GET /api/export?filename=&format=. The format
// defaults to json.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
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

	exportFormat := strings.ToLower(r.URL.Query().Get("format"))
	if exportFormat == "" {
		exportFormat = "json"
	}
	base := exportBaseName(filename)

	switch exportFormat {
	case "json":
		body := format.JSON(result)
		if r.URL.Query().Get("pretty") == "false" {
			body = format.CompactJSON(result)
		}
		h.serve(w, base+".json", "application/json", []byte(body))

	case "markdown", "md":
		h.serve(w, base+".md", "text/markdown; charset=utf-8", []byte(format.Markdown(result)))

	case "html":
		html, err := format.HTML(format.Markdown(result))
		if err != nil {
			h.logger.Error().Err(err).Str("filename", filename).Msg("HTML export failed")
			WriteError(w, http.StatusInternalServerError, "Failed to render HTML")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))

	case "pdf":
		data, err := h.pdf.RenderPDF(format.Markdown(result))
		if err != nil {
			h.logger.Error().Err(err).Str("filename", filename).Msg("PDF export failed")
			WriteError(w, http.StatusInternalServerError, "Failed to render PDF")
			return
		}
		h.serve(w, base+".pdf", "application/pdf", data)

	default:
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown export format %q (json, markdown, html, pdf)", exportFormat))
	}
}

func (h *ExportHandler) serve(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// exportBaseName strips the extension for download filenames.
func exportBaseName(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx]
	}
	return filename
}
