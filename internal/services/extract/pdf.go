package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/models"
	"github.com/ternarybob/docsift/internal/services/normalize"
)

const (
	pdfTextConfidence  = 0.95
	pdfImageConfidence = 0.85
)

// PDFExtractor parses PDF files with pdfcpu. Text comes from page
// content streams; images are reported per page without decoding pixels.
type PDFExtractor struct {
	classifier *normalize.Classifier
	logger     arbor.ILogger
}

func NewPDFExtractor(logger arbor.ILogger) *PDFExtractor {
	return &PDFExtractor{
		classifier: normalize.NewExtractorClassifier(),
		logger:     logger,
	}
}

func (e *PDFExtractor) Extensions() []string {
	return []string{"pdf"}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string, filename string) (*models.RawResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Not a readable PDF")
		return unparseableResult("pdf", err), nil
	}

	result := models.NewRawResult("pdf")
	result.Metadata["total_pages"] = strconv.Itoa(pdfCtx.PageCount)

	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pageText := extractPageText(pdfCtx, pageNr)
		if pageText != "" {
			for _, block := range normalize.SplitBlocks(pageText) {
				result.TextBlocks = append(result.TextBlocks, models.RawText{
					Content:    block,
					Type:       e.classifier.Classify(block),
					Page:       pageNr,
					Confidence: models.Confidence(pdfTextConfidence),
				})
			}
			result.Equations = append(result.Equations, DetectEquations(pageText)...)
		}

		for range pdfcpu.ImageObjNrs(pdfCtx, pageNr) {
			result.Images = append(result.Images, models.RawImage{
				Caption:     fmt.Sprintf("Image from page %d", pageNr),
				Description: "Image extracted from PDF",
				Page:        pageNr,
				Confidence:  models.Confidence(pdfImageConfidence),
				Metadata:    map[string]string{"source": "pdf_extraction"},
			})
		}
	}

	if len(result.TextBlocks) == 0 && len(result.Images) == 0 {
		e.logger.Warn().Str("filename", filename).Msg("No content found in PDF")
	}

	return result, nil
}

// extractPageText extracts text from a single PDF page via pdfcpu content stream.
func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return extractTextFromStream(data)
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// extractTextFromStream parses PDF content stream operators for text.
// Show-text operators (Tj, TJ, ') contribute content; positioning
// operators (Td, TD, T*) contribute separators.
func extractTextFromStream(data []byte) string {
	var sb strings.Builder

	lines := bytes.Split(data, []byte{'\n'})
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteString(text)
				}
			}

		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}

		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}

		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return cleanPDFText(sb.String())
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '(':
				sb.WriteByte('(')
			case ')':
				sb.WriteByte(')')
			default:
				// Octal escape (e.g. \040 for space).
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
						i++
						val = val*8 + int(raw[i]-'0')
						if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
							i++
							val = val*8 + int(raw[i]-'0')
						}
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// cleanPDFText normalises whitespace within lines while preserving the
// line structure needed for block splitting.
func cleanPDFText(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		var sb strings.Builder
		prevSpace := false
		for _, r := range line {
			if unicode.IsSpace(r) {
				if !prevSpace && sb.Len() > 0 {
					sb.WriteByte(' ')
					prevSpace = true
				}
			} else if unicode.IsPrint(r) {
				sb.WriteRune(r)
				prevSpace = false
			}
		}
		out = append(out, strings.TrimSpace(sb.String()))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
