package extract

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/models"
)

// Registry maps file extensions to extractors. Extensions without a
// format-specific extractor (e.g. rtf) are still accepted for upload and
// handled by the generic extractor.
type Registry struct {
	extractors map[string]interfaces.Extractor
	generic    interfaces.Extractor
	accepted   map[string]bool
	logger     arbor.ILogger
}

// NewRegistry builds the default extractor set from configuration.
func NewRegistry(cfg common.ParserConfig, logger arbor.ILogger) *Registry {
	r := &Registry{
		extractors: make(map[string]interfaces.Extractor),
		generic:    NewGenericExtractor(),
		accepted:   map[string]bool{"rtf": true},
		logger:     logger,
	}

	var ocr OCREngine
	if cfg.OCREnabled {
		ocr = NewTesseractEngine()
	}

	r.register(NewPDFExtractor(logger))
	r.register(NewDocxExtractor(logger))
	r.register(NewXlsxExtractor(logger))
	r.register(NewPptxExtractor(logger))
	r.register(NewImageExtractor(ocr, logger))
	r.register(NewTextExtractor())

	return r
}

func (r *Registry) register(e interfaces.Extractor) {
	for _, ext := range e.Extensions() {
		r.extractors[ext] = e
		r.accepted[ext] = true
	}
}

// ForFile returns the extractor for the given filename. The boolean is
// false when only the generic fallback applies.
func (r *Registry) ForFile(filename string) (interfaces.Extractor, bool) {
	ext := FileExtension(filename)
	if e, ok := r.extractors[ext]; ok {
		return e, true
	}
	return r.generic, false
}

// SupportedExtensions lists all accepted extensions in sorted order.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.accepted))
	for ext := range r.accepted {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// unparseableResult records a library failure on a claimed format. The
// caller still gets a normal empty result; the failure is visible only
// through the parse_error metadata flag.
func unparseableResult(fileType string, err error) *models.RawResult {
	result := models.NewRawResult(fileType)
	result.Metadata["parse_error"] = err.Error()
	return result
}

// FileExtension returns the lowercase extension of filename without the dot.
func FileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
