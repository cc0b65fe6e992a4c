package extract

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ternarybob/docsift/internal/models"
)

// GenericExtractor handles file types without a dedicated parser. It
// produces a single informational text block describing the file.
type GenericExtractor struct{}

func NewGenericExtractor() *GenericExtractor {
	return &GenericExtractor{}
}

func (e *GenericExtractor) Extensions() []string {
	return nil
}

func (e *GenericExtractor) Extract(ctx context.Context, path string, filename string) (*models.RawResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}

	result := models.NewRawResult("generic")
	result.Metadata["file_size"] = strconv.FormatInt(info.Size(), 10)
	result.TextBlocks = []models.RawText{
		{
			Content:    fmt.Sprintf("File: %s\nType: Unsupported for detailed parsing\nSize: %d bytes", filename, info.Size()),
			Type:       models.BlockTypeInfo,
			Confidence: models.Confidence(1.0),
		},
	}

	return result, nil
}
