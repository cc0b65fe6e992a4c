package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/models"
)

// Service turns raw extractor output into categorised, consistently
// identified content. IDs are assigned per category in extraction order:
// text_0, text_1, image_0, table_0, equation_0 and so on.
type Service struct {
	classifier *Classifier
	logger     arbor.ILogger
}

// NewService creates a normaliser using the configured classifier thresholds.
func NewService(cfg common.ClassifierConfig, logger arbor.ILogger) *Service {
	return &Service{
		classifier: NewClassifier(cfg),
		logger:     logger,
	}
}

// Normalize categorises a raw extraction result.
func (s *Service) Normalize(raw *models.RawResult) models.ContentTypes {
	content := models.ContentTypes{
		TextBlocks: []models.TextBlock{},
		Images:     []models.ImageItem{},
		Tables:     []models.TableItem{},
		Equations:  []models.EquationItem{},
	}

	if raw == nil {
		return content
	}
	content.Metadata = raw.Metadata

	for i, rt := range raw.TextBlocks {
		trimmed := strings.TrimSpace(rt.Content)
		if trimmed == "" {
			continue
		}

		blockType := rt.Type
		if blockType == "" {
			blockType = s.classifier.Classify(trimmed)
		}

		// Extractors that split a single text source record the raw
		// split position; discarded empty segments leave gaps in both
		// line numbers and IDs.
		lineNumber := rt.LineNumber
		if lineNumber == 0 {
			lineNumber = i + 1
		}

		content.TextBlocks = append(content.TextBlocks, models.TextBlock{
			ID:         fmt.Sprintf("text_%d", lineNumber-1),
			Content:    trimmed,
			Type:       blockType,
			Length:     len(trimmed),
			WordCount:  len(strings.Fields(trimmed)),
			LineNumber: lineNumber,
			Page:       rt.Page,
			Confidence: confidenceOrDefault(rt.Confidence),
		})
	}

	for i, img := range raw.Images {
		content.Images = append(content.Images, models.ImageItem{
			ID:            fmt.Sprintf("image_%d", i),
			Caption:       img.Caption,
			Description:   img.Description,
			AltText:       img.AltText,
			Format:        img.Format,
			Page:          img.Page,
			ExtractedText: img.ExtractedText,
			Metadata:      img.Metadata,
			Confidence:    confidenceOrDefault(img.Confidence),
		})
	}

	for i, table := range raw.Tables {
		dataTypes := table.DataTypes
		if len(dataTypes) == 0 {
			dataTypes = inferColumnTypes(table.Headers, table.Rows)
		}
		content.Tables = append(content.Tables, models.TableItem{
			ID:         fmt.Sprintf("table_%d", i),
			Caption:    table.Caption,
			Headers:    table.Headers,
			Rows:       table.Rows,
			RowCount:   len(table.Rows),
			ColCount:   len(table.Headers),
			DataTypes:  dataTypes,
			Ragged:     isRagged(table.Headers, table.Rows),
			Confidence: confidenceOrDefault(table.Confidence),
		})
	}

	for i, eq := range raw.Equations {
		eqType := eq.Type
		if eqType == "" {
			eqType = "inline"
		}
		content.Equations = append(content.Equations, models.EquationItem{
			ID:          fmt.Sprintf("equation_%d", i),
			LaTeX:       eq.LaTeX,
			Description: eq.Description,
			Type:        eqType,
			Variables:   eq.Variables,
			Context:     eq.Context,
			Confidence:  confidenceOrDefault(eq.Confidence),
		})
	}

	s.logger.Debug().
		Int("text_blocks", len(content.TextBlocks)).
		Int("images", len(content.Images)).
		Int("tables", len(content.Tables)).
		Int("equations", len(content.Equations)).
		Msg("Raw content normalized")

	return content
}

// confidenceOrDefault resolves an optional raw score. Absent scores
// default to 1.0; an explicit zero stays zero.
func confidenceOrDefault(c *float64) float64 {
	if c != nil {
		return *c
	}
	return 1.0
}

// inferColumnTypes labels each column "numeric" when every non-empty cell
// parses as a number, otherwise "text". Empty columns default to "text".
func inferColumnTypes(headers []string, rows [][]string) []string {
	if len(headers) == 0 {
		return nil
	}
	types := make([]string, len(headers))
	for col := range headers {
		numeric := false
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err != nil {
				numeric = false
				break
			}
			numeric = true
		}
		if numeric {
			types[col] = "numeric"
		} else {
			types[col] = "text"
		}
	}
	return types
}

// isRagged reports whether any data row disagrees with the header width.
func isRagged(headers []string, rows [][]string) bool {
	if len(headers) == 0 {
		return false
	}
	for _, row := range rows {
		if len(row) != len(headers) {
			return true
		}
	}
	return false
}

// Segment is one non-empty block from a blank-line split together with
// its 1-based position in the full split sequence. Positions of
// discarded empty segments are not reused.
type Segment struct {
	Text     string
	Position int
}

// SplitSegments splits plain text into blocks on blank lines, keeping
// each block's position in the raw split sequence. Windows and old Mac
// line endings are normalised first.
func SplitSegments(text string) []Segment {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var segments []Segment
	for i, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			segments = append(segments, Segment{Text: p, Position: i + 1})
		}
	}
	return segments
}

// SplitBlocks returns just the block contents of SplitSegments, for
// callers that number blocks themselves.
func SplitBlocks(text string) []string {
	segments := SplitSegments(text)
	blocks := make([]string, 0, len(segments))
	for _, seg := range segments {
		blocks = append(blocks, seg.Text)
	}
	return blocks
}
