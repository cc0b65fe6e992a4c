package normalize

import (
	"strings"

	"github.com/ternarybob/docsift/internal/models"
)

// Aggregate computes summary statistics over categorised content.
// Word and character totals are counted from text blocks only; image
// captions, table cells and equation text do not contribute.
func Aggregate(content models.ContentTypes, durationMs int64) models.Statistics {
	stats := models.Statistics{
		TotalTextBlocks:  len(content.TextBlocks),
		TotalImages:      len(content.Images),
		TotalTables:      len(content.Tables),
		TotalEquations:   len(content.Equations),
		ProcessingTimeMs: durationMs,
	}

	for _, block := range content.TextBlocks {
		stats.TotalWords += len(strings.Fields(block.Content))
		stats.TotalCharacters += len(block.Content)
	}

	return stats
}
