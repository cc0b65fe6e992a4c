package extract

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/models"
)

const (
	imageConfidence = 0.99
	ocrConfidence   = 0.80
)

// ImageExtractor handles standalone image files. It records the image
// dimensions and format, and runs OCR on the file when an engine is
// configured.
type ImageExtractor struct {
	ocr    OCREngine
	logger arbor.ILogger
}

func NewImageExtractor(ocr OCREngine, logger arbor.ILogger) *ImageExtractor {
	return &ImageExtractor{ocr: ocr, logger: logger}
}

func (e *ImageExtractor) Extensions() []string {
	return []string{"png", "jpg", "jpeg", "gif", "bmp"}
}

func (e *ImageExtractor) Extract(ctx context.Context, path string, filename string) (*models.RawResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Not a decodable image")
		return unparseableResult("image", err), nil
	}

	result := models.NewRawResult("image")

	item := models.RawImage{
		Caption:     fmt.Sprintf("Analysis of %s", filename),
		Description: fmt.Sprintf("Image file: %s", filename),
		Format:      format,
		Confidence:  models.Confidence(imageConfidence),
		Metadata: map[string]string{
			"source": "image_file",
			"width":  strconv.Itoa(cfg.Width),
			"height": strconv.Itoa(cfg.Height),
		},
	}
	if mode := colorMode(cfg.ColorModel); mode != "" {
		item.Metadata["mode"] = mode
	}

	if e.ocr != nil {
		text, err := e.ocr.Recognize(ctx, path)
		if err != nil {
			e.logger.Warn().Err(err).Str("filename", filename).Msg("OCR failed, continuing without text")
		} else if trimmed := strings.TrimSpace(text); trimmed != "" {
			item.ExtractedText = trimmed
			result.TextBlocks = append(result.TextBlocks, models.RawText{
				Content:    trimmed,
				Type:       models.BlockTypeOCR,
				Confidence: models.Confidence(ocrConfidence),
			})
		}
	}

	result.Images = append(result.Images, item)
	return result, nil
}

// colorMode names the pixel layout the way image viewers report it.
func colorMode(m color.Model) string {
	switch m {
	case color.RGBAModel, color.NRGBAModel:
		return "RGBA"
	case color.RGBA64Model, color.NRGBA64Model:
		return "RGBA64"
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "L16"
	case color.YCbCrModel:
		return "RGB"
	case color.CMYKModel:
		return "CMYK"
	}
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	return ""
}
