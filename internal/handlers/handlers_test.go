package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/models"
	"github.com/ternarybob/docsift/internal/services/events"
	"github.com/ternarybob/docsift/internal/services/extract"
	"github.com/ternarybob/docsift/internal/services/format"
	"github.com/ternarybob/docsift/internal/services/normalize"
	"github.com/ternarybob/docsift/internal/services/parser"
)

type testEnv struct {
	config *common.Config
	parser *parser.Service
	store  *parser.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := arbor.NewLogger()
	cfg := common.NewDefaultConfig()
	cfg.Parser.OCREnabled = false
	cfg.Parser.UploadDir = t.TempDir()

	store := parser.NewMemoryStore(0)
	svc := parser.NewService(
		cfg,
		extract.NewRegistry(cfg.Parser, logger),
		normalize.NewService(cfg.Classifier, logger),
		store,
		events.NewService(logger),
		logger,
	)
	return &testEnv{config: cfg, parser: svc, store: store}
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestParseHandler_UploadAndParse(t *testing.T) {
	env := newTestEnv(t)
	h := NewParseHandler(env.config, env.parser)

	body, contentType := multipartUpload(t, "file", "notes.txt", "# Heading\n\nSome body text for the upload test that should classify as a paragraph block with plenty of words.")
	req := httptest.NewRequest("POST", "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleParse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status  string                `json:"status"`
		Results []models.ParseResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "notes.txt", resp.Results[0].Filename)
	assert.Empty(t, resp.Results[0].Error)
	assert.Equal(t, 2, resp.Results[0].Statistics.TotalTextBlocks)

	_, ok := env.store.Get("notes.txt")
	assert.True(t, ok)
}

func TestParseHandler_RejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t)
	h := NewParseHandler(env.config, env.parser)

	body, contentType := multipartUpload(t, "files", "malware.exe", "MZ")
	req := httptest.NewRequest("POST", "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleParse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []models.ParseResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Contains(t, resp.Results[0].Error, "unsupported file type")
}

func TestParseHandler_EmptyForm(t *testing.T) {
	env := newTestEnv(t)
	h := NewParseHandler(env.config, env.parser)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())
	req := httptest.NewRequest("POST", "/api/parse", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	h.HandleParse(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseHandler_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	h := NewParseHandler(env.config, env.parser)

	rec := httptest.NewRecorder()
	h.HandleParse(rec, httptest.NewRequest("GET", "/api/parse", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestResultsHandler_ListGetDelete(t *testing.T) {
	env := newTestEnv(t)
	env.store.Put(models.NewParseResult("a.txt", "text"))
	h := NewResultsHandler(env.store, nil)

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest("GET", "/api/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Count   int                     `json:"count"`
		Results []models.ResultSummary `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Count)

	rec = httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest("GET", "/api/results/get?filename=a.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest("GET", "/api/results/get?filename=missing.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, httptest.NewRequest("DELETE", "/api/results/delete?filename=a.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.store.Count())
}

func TestResultsHandler_Clear(t *testing.T) {
	env := newTestEnv(t)
	env.store.Put(models.NewParseResult("a.txt", "text"))
	env.store.Put(models.NewParseResult("b.txt", "text"))
	h := NewResultsHandler(env.store, nil)

	rec := httptest.NewRecorder()
	h.HandleClear(rec, httptest.NewRequest("DELETE", "/api/results/clear", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.store.Count())
}

func TestExportHandler_Formats(t *testing.T) {
	env := newTestEnv(t)
	result := models.NewParseResult("doc.txt", "text")
	result.ContentTypes.TextBlocks = []models.TextBlock{
		{ID: "text_0", Content: "Hello", Type: models.BlockTypeShortText, WordCount: 1, Confidence: 0.99},
	}
	env.store.Put(result)

	h := NewExportHandler(env.store, format.NewPDFService(arbor.NewLogger()))

	tests := []struct {
		format      string
		contentType string
		bodyCheck   string
	}{
		{"json", "application/json", `"filename": "doc.txt"`},
		{"markdown", "text/markdown; charset=utf-8", "# Parsing Results: doc.txt"},
		{"html", "text/html; charset=utf-8", "<h1"},
		{"pdf", "application/pdf", "%PDF"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.HandleExport(rec, httptest.NewRequest("GET", "/api/export?filename=doc.txt&format="+tt.format, nil))
		require.Equal(t, http.StatusOK, rec.Code, tt.format)
		assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"), tt.format)
		assert.Contains(t, rec.Body.String(), tt.bodyCheck, tt.format)
	}

	// Download formats carry a Content-Disposition header.
	rec := httptest.NewRecorder()
	h.HandleExport(rec, httptest.NewRequest("GET", "/api/export?filename=doc.txt&format=markdown", nil))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `"doc.md"`)
}

func TestExportHandler_Errors(t *testing.T) {
	env := newTestEnv(t)
	h := NewExportHandler(env.store, format.NewPDFService(arbor.NewLogger()))

	rec := httptest.NewRecorder()
	h.HandleExport(rec, httptest.NewRequest("GET", "/api/export", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleExport(rec, httptest.NewRequest("GET", "/api/export?filename=missing.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.store.Put(models.NewParseResult("x.txt", "text"))
	rec = httptest.NewRecorder()
	h.HandleExport(rec, httptest.NewRequest("GET", "/api/export?filename=x.txt&format=docx", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIHandler_Endpoints(t *testing.T) {
	env := newTestEnv(t)
	h := NewAPIHandler(env.config, env.parser, env.store)

	rec := httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	h.VersionHandler(rec, httptest.NewRequest("GET", "/api/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")

	rec = httptest.NewRecorder()
	h.FormatsHandler(rec, httptest.NewRequest("GET", "/api/formats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pdf")

	rec = httptest.NewRecorder()
	h.StatusHandler(rec, httptest.NewRequest("GET", "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "running", status["status"])

	rec = httptest.NewRecorder()
	h.NotFoundHandler(rec, httptest.NewRequest("GET", "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocketHandler_BroadcastsParseEvents(t *testing.T) {
	logger := arbor.NewLogger()
	cfg := common.NewDefaultConfig()
	cfg.WebSocket.ProgressThrottle = "" // No throttling in tests
	eventSvc := events.NewService(logger)
	h := NewWebSocketHandler(eventSvc, logger, &cfg.WebSocket)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocketDial(wsURL)
	require.NoError(t, err)
	defer conn.Close()

	// First message is the connection status with the instance ID.
	var status WSMessage
	require.NoError(t, conn.ReadJSON(&status))
	assert.Equal(t, "status", status.Type)

	h.Broadcast("parse_completed", map[string]string{"filename": "a.txt"})

	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "parse_completed", msg.Type)
}

func websocketDial(url string) (*websocket.Conn, *http.Response, error) {
	return websocket.DefaultDialer.Dial(url, nil)
}
