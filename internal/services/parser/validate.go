package parser

import (
	"fmt"
	"strings"

	"github.com/ternarybob/docsift/internal/services/extract"
)

// ValidateUpload checks filename extension and size against the
// configured limits before any bytes are written to disk.
func (s *Service) ValidateUpload(filename string, size int64) error {
	ext := extract.FileExtension(filename)
	if ext == "" {
		return fmt.Errorf("file %q has no extension", filename)
	}

	supported := false
	for _, e := range s.registry.SupportedExtensions() {
		if e == ext {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported file type %q (supported: %s)",
			ext, strings.Join(s.registry.SupportedExtensions(), ", "))
	}

	if maxBytes := s.config.MaxFileSizeBytes(); size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds limit of %d MB",
			size, s.config.Parser.MaxFileSizeMB)
	}
	return nil
}
