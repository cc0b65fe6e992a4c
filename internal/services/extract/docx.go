package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/models"
	"github.com/ternarybob/docsift/internal/services/normalize"
)

const (
	docxTextConfidence  = 0.97
	docxTableConfidence = 0.92
)

// DocxExtractor parses Word documents by reading word/document.xml from
// the ZIP archive. Paragraphs become text blocks, w:tbl elements become
// tables with the first row as headers, and word/media entries are
// reported as embedded images.
type DocxExtractor struct {
	classifier *normalize.Classifier
	logger     arbor.ILogger
}

func NewDocxExtractor(logger arbor.ILogger) *DocxExtractor {
	return &DocxExtractor{
		classifier: normalize.NewExtractorClassifier(),
		logger:     logger,
	}
}

func (e *DocxExtractor) Extensions() []string {
	return []string{"docx", "doc"}
}

func (e *DocxExtractor) Extract(ctx context.Context, filePath string, filename string) (*models.RawResult, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", filename, err)
		}
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Not a readable Word archive")
		return unparseableResult("docx", err), nil
	}
	defer r.Close()

	var docFile *zip.File
	var mediaFiles []string
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
		}
		if strings.HasPrefix(f.Name, "word/media/") && !strings.HasSuffix(f.Name, "/") {
			mediaFiles = append(mediaFiles, f.Name)
		}
	}
	if docFile == nil {
		err := fmt.Errorf("word/document.xml not found in archive")
		e.logger.Warn().Str("filename", filename).Msg("Archive carries no document body")
		return unparseableResult("docx", err), nil
	}

	rc, err := docFile.Open()
	if err != nil {
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Failed to open document body")
		return unparseableResult("docx", err), nil
	}
	defer rc.Close()

	result := models.NewRawResult("docx")
	e.parseDocument(rc, result)

	for _, name := range mediaFiles {
		base := path.Base(name)
		result.Images = append(result.Images, models.RawImage{
			Caption:     base,
			Description: "Embedded media from document archive",
			Format:      FileExtension(base),
			Confidence:  models.Confidence(docxTableConfidence),
			Metadata:    map[string]string{"source": "docx_media"},
		})
	}

	return result, nil
}

func (e *DocxExtractor) parseDocument(rc io.Reader, result *models.RawResult) {
	decoder := xml.NewDecoder(rc)

	var currentText strings.Builder
	var inParagraph bool
	var inTable bool
	var inText bool
	var isHeading bool

	var tableRows [][]string
	var currentRow []string
	var cellText strings.Builder
	var inCell bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				inTable = true
				tableRows = nil
			case "tr":
				if inTable {
					currentRow = nil
				}
			case "tc":
				if inTable {
					inCell = true
					cellText.Reset()
				}
			case "p":
				if !inTable {
					inParagraph = true
					isHeading = false
					currentText.Reset()
				}
			case "pStyle":
				if inParagraph {
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" && strings.HasPrefix(attr.Value, "Heading") {
							isHeading = true
						}
					}
				}
			case "t":
				inText = true
			}

		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cellText.Write(t)
			} else if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tc":
				if inTable && inCell {
					inCell = false
					currentRow = append(currentRow, strings.TrimSpace(cellText.String()))
				}
			case "tr":
				if inTable && currentRow != nil {
					tableRows = append(tableRows, currentRow)
				}
			case "tbl":
				if inTable {
					inTable = false
					e.appendTable(result, tableRows)
				}
			case "p":
				if inParagraph {
					inParagraph = false
					text := strings.TrimSpace(currentText.String())
					if text == "" {
						continue
					}
					blockType := models.BlockTypeHeader
					if !isHeading {
						blockType = e.classifier.Classify(text)
					}
					result.TextBlocks = append(result.TextBlocks, models.RawText{
						Content:    text,
						Type:       blockType,
						Confidence: models.Confidence(docxTextConfidence),
					})
				}
			}
		}
	}
}

// appendTable converts collected rows into a table, first row as headers.
func (e *DocxExtractor) appendTable(result *models.RawResult, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	result.Tables = append(result.Tables, models.RawTable{
		Headers:    rows[0],
		Rows:       rows[1:],
		Caption:    fmt.Sprintf("Table %d from document", len(result.Tables)+1),
		Confidence: models.Confidence(docxTableConfidence),
	})
}
