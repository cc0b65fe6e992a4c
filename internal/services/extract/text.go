package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/docsift/internal/models"
	"github.com/ternarybob/docsift/internal/services/normalize"
)

const textConfidence = 0.99

// TextExtractor handles plain text and markdown files. Content splits
// into blocks on blank lines; LaTeX expressions are detected as equations.
type TextExtractor struct {
	classifier *normalize.Classifier
}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{
		classifier: normalize.NewExtractorClassifier(),
	}
}

func (e *TextExtractor) Extensions() []string {
	return []string{"txt", "md"}
}

func (e *TextExtractor) Extract(ctx context.Context, path string, filename string) (*models.RawResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	result := models.NewRawResult("text")
	content := string(data)

	for _, seg := range normalize.SplitSegments(content) {
		result.TextBlocks = append(result.TextBlocks, models.RawText{
			Content:    seg.Text,
			Type:       e.classifier.Classify(seg.Text),
			LineNumber: seg.Position,
			Confidence: models.Confidence(textConfidence),
		})
	}

	result.Equations = DetectEquations(content)

	return result, nil
}
