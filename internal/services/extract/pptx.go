package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/models"
)

const pptxConfidence = 0.90

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PptxExtractor reads PowerPoint presentations from the ZIP archive.
// Each slide's text runs are collected per paragraph, with the slide
// number recorded as the page.
type PptxExtractor struct {
	logger arbor.ILogger
}

func NewPptxExtractor(logger arbor.ILogger) *PptxExtractor {
	return &PptxExtractor{logger: logger}
}

func (e *PptxExtractor) Extensions() []string {
	return []string{"pptx", "ppt"}
}

func (e *PptxExtractor) Extract(ctx context.Context, path string, filename string) (*models.RawResult, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", filename, err)
		}
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Not a readable presentation archive")
		return unparseableResult("pptx", err), nil
	}
	defer r.Close()

	type slideFile struct {
		number int
		file   *zip.File
	}
	var slides []slideFile
	for _, f := range r.File {
		m := slideNameRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{number: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	result := models.NewRawResult("pptx")

	for _, slide := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rc, err := slide.file.Open()
		if err != nil {
			e.logger.Warn().Err(err).Int("slide", slide.number).Msg("Failed to open slide")
			continue
		}
		paragraphs, err := e.parseSlide(rc)
		rc.Close()
		if err != nil {
			e.logger.Warn().Err(err).Int("slide", slide.number).Msg("Failed to parse slide")
			continue
		}

		for _, text := range paragraphs {
			result.TextBlocks = append(result.TextBlocks, models.RawText{
				Content:    text,
				Page:       slide.number,
				Confidence: models.Confidence(pptxConfidence),
			})
		}
	}

	result.Metadata["total_slides"] = strconv.Itoa(len(slides))
	return result, nil
}

// parseSlide walks the slide XML collecting <a:t> run text grouped by
// paragraph (<a:p>). Empty paragraphs are skipped.
func (e *PptxExtractor) parseSlide(rc io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(rc)

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
				inParagraph = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inParagraph && inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
