package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/models"
)

func sampleResult() *models.ParseResult {
	return &models.ParseResult{
		Filename:       "report.pdf",
		FileType:       "pdf",
		ProcessingTime: "2026-08-31T10:00:00Z",
		ContentTypes: models.ContentTypes{
			TextBlocks: []models.TextBlock{
				{
					ID:         "text_0",
					Content:    "Quarterly Overview",
					Type:       models.BlockTypeHeader,
					WordCount:  2,
					Confidence: 0.95,
				},
			},
			Images: []models.ImageItem{
				{
					ID:          "image_0",
					Caption:     "Image from page 1",
					Description: "Image extracted from PDF",
					Confidence:  0.85,
					Metadata:    map[string]string{"source": "pdf_extraction"},
				},
			},
			Tables: []models.TableItem{
				{
					ID:         "table_0",
					Caption:    "Sheet: Sales",
					Headers:    []string{"Region", "Total"},
					Rows:       [][]string{{"North", "120"}},
					Confidence: 0.98,
				},
			},
			Equations: []models.EquationItem{
				{
					ID:          "equation_0",
					LaTeX:       "E = mc^2",
					Description: "Mass energy relation",
					Variables:   []string{"E", "m", "c"},
					Confidence:  0.90,
				},
			},
		},
		Statistics: models.Statistics{
			TotalTextBlocks:  1,
			TotalImages:      1,
			TotalTables:      1,
			TotalEquations:   1,
			TotalWords:       2,
			TotalCharacters:  18,
			ProcessingTimeMs: 42,
		},
	}
}

func TestJSON_IndentedWithoutHTMLEscaping(t *testing.T) {
	out := JSON(map[string]string{"content": "a < b & c"})
	assert.Contains(t, out, "a < b & c")
	assert.Contains(t, out, "\n  \"content\"")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestJSON_RoundTrip(t *testing.T) {
	out := JSON(sampleResult())

	var decoded models.ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "report.pdf", decoded.Filename)
	assert.Equal(t, sampleResult().Statistics, decoded.Statistics)
	assert.Len(t, decoded.ContentTypes.TextBlocks, 1)
	assert.Len(t, decoded.ContentTypes.Images, 1)
	assert.Len(t, decoded.ContentTypes.Tables, 1)
	assert.Len(t, decoded.ContentTypes.Equations, 1)
}

func TestCompactJSON_SingleLine(t *testing.T) {
	out := CompactJSON(map[string]string{"content": "a < b"})
	assert.Equal(t, `{"content":"a < b"}`, out)
}

func TestJSON_EncodingError(t *testing.T) {
	out := JSON(func() {})
	assert.True(t, strings.HasPrefix(out, "Error formatting JSON:"))
}

func TestMarkdown_FullReport(t *testing.T) {
	md := Markdown(sampleResult())

	assert.Contains(t, md, "# Parsing Results: report.pdf\n")
	assert.Contains(t, md, "**Processing Time:** 2026-08-31T10:00:00Z\n")

	assert.Contains(t, md, "## 📊 Statistics\n")
	assert.Contains(t, md, "- **Total Text Blocks:** 1")
	assert.Contains(t, md, "- **Processing Time Ms:** 42")

	assert.Contains(t, md, "## 📝 Text Content\n")
	assert.Contains(t, md, "### Text Block 1 (Header)\n")
	assert.Contains(t, md, "**Words:** 2 | **Confidence:** 0.95\n")
	assert.Contains(t, md, "```\nQuarterly Overview\n```")

	assert.Contains(t, md, "## 🖼️ Images\n")
	assert.Contains(t, md, "**Caption:** Image from page 1\n")
	assert.Contains(t, md, "- Source: pdf_extraction")

	assert.Contains(t, md, "## 📊 Tables\n")
	assert.Contains(t, md, "| Region | Total |")
	assert.Contains(t, md, "|---|---|")
	assert.Contains(t, md, "| North | 120 |")

	assert.Contains(t, md, "## 🧮 Equations\n")
	assert.Contains(t, md, "**LaTeX:** `E = mc^2`\n")
	assert.Contains(t, md, "**Variables:** E, m, c\n")
}

func TestMarkdown_EmptySectionsOmitted(t *testing.T) {
	result := models.NewParseResult("empty.txt", "text")
	md := Markdown(result)

	assert.Contains(t, md, "## 📊 Statistics")
	assert.NotContains(t, md, "## 📝 Text Content")
	assert.NotContains(t, md, "## 🖼️ Images")
	assert.NotContains(t, md, "## 📊 Tables")
	assert.NotContains(t, md, "## 🧮 Equations")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Total Text Blocks", titleCase("total_text_blocks"))
	assert.Equal(t, "Header", titleCase("header"))
	assert.Equal(t, "Short Text", titleCase("short_text"))
	assert.Equal(t, "Ocr Extracted", titleCase("ocr_extracted"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefgh", 5))
}

func TestHTML_RendersTables(t *testing.T) {
	html, err := HTML("# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "<table>")
}

func TestRenderPDF(t *testing.T) {
	svc := NewPDFService(arbor.NewLogger())
	md := Markdown(sampleResult())

	data, err := svc.RenderPDF(md)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Greater(t, len(data), 500)
}
