package parser

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/services/events"
	"github.com/ternarybob/docsift/internal/services/extract"
	"github.com/ternarybob/docsift/internal/services/normalize"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	logger := arbor.NewLogger()
	cfg := common.NewDefaultConfig()
	cfg.Parser.OCREnabled = false

	store := NewMemoryStore(cfg.Parser.MaxStoredFiles)
	svc := NewService(
		cfg,
		extract.NewRegistry(cfg.Parser, logger),
		normalize.NewService(cfg.Classifier, logger),
		store,
		events.NewService(logger),
		logger,
	)
	return svc, store
}

func writeUpload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_TextDocument(t *testing.T) {
	svc, store := newTestService(t)

	path := writeUpload(t, "notes.txt", "# Meeting Notes\n\nEveryone agreed the rollout schedule should move forward by one week to avoid the holiday freeze window.")
	result, err := svc.Parse(context.Background(), path, "notes.txt")
	require.NoError(t, err)

	assert.False(t, result.Failed())
	assert.Equal(t, "txt", result.FileType)
	assert.Equal(t, 2, result.Statistics.TotalTextBlocks)
	assert.Greater(t, result.Statistics.TotalWords, 0)
	require.NotNil(t, result.RawResults)
	assert.Equal(t, "text", result.RawResults.Metadata["file_type"])

	stored, ok := store.Get("notes.txt")
	require.True(t, ok)
	assert.Equal(t, result, stored)
}

func TestParse_UnsupportedTypeUsesGenericExtractor(t *testing.T) {
	svc, _ := newTestService(t)

	path := writeUpload(t, "legacy.rtf", "{\\rtf1 some rtf content}")
	result, err := svc.Parse(context.Background(), path, "legacy.rtf")
	require.NoError(t, err)

	assert.False(t, result.Failed())
	require.Equal(t, 1, result.Statistics.TotalTextBlocks)
	assert.Contains(t, result.ContentTypes.TextBlocks[0].Content, "Unsupported for detailed parsing")
}

func TestParse_CorruptClaimedFormatYieldsEmptyResult(t *testing.T) {
	svc, store := newTestService(t)

	// A .docx that is not a ZIP archive still parses to a normal result
	// with empty content and the failure recorded in metadata.
	path := writeUpload(t, "broken.docx", "not a zip")
	result, err := svc.Parse(context.Background(), path, "broken.docx")
	require.NoError(t, err)

	assert.False(t, result.Failed())
	assert.Empty(t, result.Error)
	assert.Equal(t, 0, result.Statistics.TotalTextBlocks)
	require.NotNil(t, result.RawResults)
	assert.NotEmpty(t, result.RawResults.Metadata["parse_error"])
	assert.Equal(t, "docx", result.RawResults.Metadata["file_type"])

	stored, ok := store.Get("broken.docx")
	require.True(t, ok)
	assert.False(t, stored.Failed())
}

func TestParse_MissingFileRecordedOnResult(t *testing.T) {
	svc, store := newTestService(t)

	path := filepath.Join(t.TempDir(), "gone.txt")
	result, err := svc.Parse(context.Background(), path, "gone.txt")
	require.NoError(t, err)

	assert.True(t, result.Failed())
	assert.NotEmpty(t, result.Error)

	stored, ok := store.Get("gone.txt")
	require.True(t, ok)
	assert.True(t, stored.Failed())
}

func TestParse_PublishesLifecycleEvents(t *testing.T) {
	logger := arbor.NewLogger()
	cfg := common.NewDefaultConfig()
	cfg.Parser.OCREnabled = false

	eventSvc := events.NewService(logger)
	var mu sync.Mutex
	var seen []interfaces.EventType
	record := func(ctx context.Context, event interfaces.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, event.Type)
		return nil
	}
	require.NoError(t, eventSvc.Subscribe(interfaces.EventParseStarted, record))
	require.NoError(t, eventSvc.Subscribe(interfaces.EventParseCompleted, record))

	svc := NewService(
		cfg,
		extract.NewRegistry(cfg.Parser, logger),
		normalize.NewService(cfg.Classifier, logger),
		NewMemoryStore(0),
		eventSvc,
		logger,
	)

	path := writeUpload(t, "ok.txt", "Fine content for the parser.")
	_, err := svc.Parse(context.Background(), path, "ok.txt")
	require.NoError(t, err)

	// Handlers run async, poll for delivery.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestValidateUpload(t *testing.T) {
	svc, _ := newTestService(t)

	assert.NoError(t, svc.ValidateUpload("doc.pdf", 1024))
	assert.NoError(t, svc.ValidateUpload("notes.rtf", 1024))

	err := svc.ValidateUpload("binary.exe", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")

	err = svc.ValidateUpload("big.pdf", 51*1024*1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")

	assert.Error(t, svc.ValidateUpload("noextension", 10))
}

func TestSupportedExtensions(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Contains(t, svc.SupportedExtensions(), "pdf")
	assert.Contains(t, svc.SupportedExtensions(), "rtf")
}
