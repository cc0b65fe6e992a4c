package interfaces

import (
	"context"

	"github.com/ternarybob/docsift/internal/models"
)

// ParserService orchestrates extraction, normalisation and statistics
// for uploaded documents.
type ParserService interface {
	// Parse processes the file at path and stores the result under filename.
	// Extraction failures are captured in the returned result's Error field;
	// the error return is reserved for infrastructure failures.
	Parse(ctx context.Context, path string, filename string) (*models.ParseResult, error)

	// SupportedExtensions lists the file extensions accepted for upload.
	SupportedExtensions() []string

	// ValidateUpload checks a filename and size against configured limits.
	ValidateUpload(filename string, size int64) error
}

// ResultStore holds parse results keyed by filename for the session.
type ResultStore interface {
	Put(result *models.ParseResult)
	Get(filename string) (*models.ParseResult, bool)
	List() []*models.ResultSummary
	Delete(filename string) bool
	Clear()
	Count() int
}
