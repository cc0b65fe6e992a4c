package interfaces

import (
	"context"

	"github.com/ternarybob/docsift/internal/models"
)

// Extractor pulls format-specific raw content out of a document on disk.
type Extractor interface {
	// Extensions returns the lowercase file extensions this extractor
	// handles, without the leading dot.
	Extensions() []string

	// Extract parses the file at path and returns raw content. A file
	// the underlying library cannot decode is not an error: the
	// extractor returns an empty result with a parse_error metadata
	// flag. The error return covers infrastructure problems such as an
	// unreadable path. Partial results with a non-nil error are valid:
	// the caller keeps what was extracted and records the failure.
	Extract(ctx context.Context, path string, filename string) (*models.RawResult, error)
}

// ExtractorRegistry resolves an extractor for a file by extension.
type ExtractorRegistry interface {
	// ForFile returns the extractor for the given filename. The boolean
	// is false when no format-specific extractor matches, in which case
	// callers fall back to the generic extractor.
	ForFile(filename string) (Extractor, bool)

	// SupportedExtensions lists all registered extensions.
	SupportedExtensions() []string
}
