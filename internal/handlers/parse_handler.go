package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/models"
)

// ParseHandler accepts document uploads and runs them through the parse
// pipeline.
type ParseHandler struct {
	config *common.Config
	parser interfaces.ParserService
	logger arbor.ILogger
}

func NewParseHandler(config *common.Config, parser interfaces.ParserService) *ParseHandler {
	return &ParseHandler{
		config: config,
		parser: parser,
		logger: common.GetLogger(),
	}
}

// HandleParse processes POST /api/parse. The multipart form may carry
// one or more files under the "files" field ("file" also accepted).
// Each file is parsed independently; per-file failures are reported in
// the result list, not as a request error.
func (h *ParseHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	maxBytes := h.config.MaxFileSizeBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart form: %s", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		WriteError(w, http.StatusBadRequest, "No files in upload")
		return
	}

	results := make([]*models.ParseResult, 0, len(files))
	for _, fh := range files {
		results = append(results, h.parseUpload(r, fh))
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"results": results,
	})
}

func (h *ParseHandler) parseUpload(r *http.Request, fh *multipart.FileHeader) *models.ParseResult {
	filename := filepath.Base(fh.Filename)

	if err := h.parser.ValidateUpload(filename, fh.Size); err != nil {
		result := models.NewParseResult(filename, "")
		result.Error = err.Error()
		h.logger.Warn().Str("filename", filename).Err(err).Msg("Upload rejected")
		return result
	}

	path, err := h.saveUpload(fh, filename)
	if err != nil {
		result := models.NewParseResult(filename, "")
		result.Error = fmt.Sprintf("failed to save upload: %s", err)
		h.logger.Error().Str("filename", filename).Err(err).Msg("Failed to save upload")
		return result
	}
	if !h.config.Parser.KeepUploads {
		defer os.Remove(path)
	}

	result, err := h.parser.Parse(r.Context(), path, filename)
	if err != nil {
		result = models.NewParseResult(filename, "")
		result.Error = err.Error()
	}
	result.FileSize = fh.Size
	return result
}

// saveUpload writes the uploaded file into the configured upload
// directory under a unique name.
func (h *ParseHandler) saveUpload(fh *multipart.FileHeader, filename string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := h.config.Parser.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, common.NewUploadID()+"_"+filename)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
