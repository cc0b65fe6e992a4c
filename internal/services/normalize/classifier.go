package normalize

import (
	"strings"
	"unicode"

	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/models"
)

var listPrefixes = []string{"- ", "• ", "* ", "1.", "2.", "3.", "4.", "5.", "6.", "7.", "8.", "9."}

// Classifier assigns a block type to a text segment using length and
// keyword heuristics. Rules are checked in priority order: header, list,
// short text, caption, paragraph.
type Classifier struct {
	headerMaxLength   int
	shortTextMaxWords int
	captionKeywords   []string
	markdownHeadings  bool
}

// NewClassifier builds a classifier from configured thresholds.
// Lines starting with '#' count as headers.
func NewClassifier(cfg common.ClassifierConfig) *Classifier {
	return &Classifier{
		headerMaxLength:   cfg.HeaderMaxLength,
		shortTextMaxWords: cfg.ShortTextMaxWords,
		captionKeywords:   cfg.CaptionKeywords,
		markdownHeadings:  true,
	}
}

// NewExtractorClassifier builds the tighter classifier used inside
// extractors, where blocks come from raw document runs rather than
// markdown-ish text: shorter header limit, wider short-text window,
// and "image" as an additional caption keyword.
func NewExtractorClassifier() *Classifier {
	return &Classifier{
		headerMaxLength:   50,
		shortTextMaxWords: 15,
		captionKeywords:   []string{"table", "figure", "chart", "graph", "image"},
	}
}

// Classify returns the block type for the given text.
func (c *Classifier) Classify(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))

	if c.isHeader(text) {
		return models.BlockTypeHeader
	}
	for _, prefix := range listPrefixes {
		if strings.HasPrefix(text, prefix) {
			return models.BlockTypeList
		}
	}
	if len(strings.Fields(text)) < c.shortTextMaxWords {
		return models.BlockTypeShortText
	}
	for _, keyword := range c.captionKeywords {
		if strings.Contains(lower, keyword) {
			return models.BlockTypeCaption
		}
	}
	return models.BlockTypeParagraph
}

func (c *Classifier) isHeader(text string) bool {
	if c.markdownHeadings && strings.HasPrefix(text, "#") {
		return true
	}
	if len(text) >= c.headerMaxLength || strings.Contains(text, "\n") {
		return false
	}
	for _, r := range text {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
