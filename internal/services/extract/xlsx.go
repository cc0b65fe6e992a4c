package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/models"
)

const xlsxConfidence = 0.98

// XlsxExtractor parses Excel workbooks from the ZIP archive: sheet names
// from xl/workbook.xml, shared strings from xl/sharedStrings.xml, and
// cell data from xl/worksheets/sheetN.xml. Each non-empty sheet becomes
// one table with the first row as headers.
type XlsxExtractor struct {
	logger arbor.ILogger
}

func NewXlsxExtractor(logger arbor.ILogger) *XlsxExtractor {
	return &XlsxExtractor{logger: logger}
}

func (e *XlsxExtractor) Extensions() []string {
	return []string{"xlsx", "xls"}
}

// workbook.xml structure
type xlsxWorkbook struct {
	Sheets struct {
		Sheet []struct {
			Name    string `xml:"name,attr"`
			SheetID string `xml:"sheetId,attr"`
			RelID   string `xml:"id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

// workbook.xml.rels structure
type xlsxRels struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// sharedStrings.xml structure; a string item may be a single <t> or
// multiple formatted runs <r><t>.
type xlsxSharedStrings struct {
	SI []struct {
		T string `xml:"t"`
		R []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

// worksheet structure
type xlsxWorksheet struct {
	SheetData struct {
		Row []struct {
			C []struct {
				R string `xml:"r,attr"` // cell reference, e.g. "B2"
				T string `xml:"t,attr"` // cell type: "s" = shared string
				V string `xml:"v"`
			} `xml:"c"`
		} `xml:"row"`
	} `xml:"sheetData"`
}

func (e *XlsxExtractor) Extract(ctx context.Context, path string, filename string) (*models.RawResult, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", filename, err)
		}
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Not a readable workbook archive")
		return unparseableResult("xlsx", err), nil
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[f.Name] = f
	}

	var workbook xlsxWorkbook
	if err := decodeZipXML(files["xl/workbook.xml"], &workbook); err != nil {
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Failed to parse workbook.xml")
		return unparseableResult("xlsx", fmt.Errorf("parse workbook.xml: %w", err)), nil
	}

	relTargets := make(map[string]string)
	var rels xlsxRels
	if err := decodeZipXML(files["xl/_rels/workbook.xml.rels"], &rels); err != nil {
		e.logger.Warn().Err(err).Str("filename", filename).Msg("Failed to parse workbook rels")
	} else {
		for _, rel := range rels.Relationship {
			relTargets[rel.ID] = rel.Target
		}
	}

	shared := e.loadSharedStrings(files)

	result := models.NewRawResult("xlsx")

	for _, sheet := range workbook.Sheets.Sheet {
		target := relTargets[sheet.RelID]
		if target == "" {
			// Fallback for workbooks without usable rels.
			target = "worksheets/sheet" + sheet.SheetID + ".xml"
		}
		sheetFile := files["xl/"+strings.TrimPrefix(target, "/")]
		if sheetFile == nil {
			e.logger.Warn().Str("sheet", sheet.Name).Str("target", target).Msg("Worksheet file not found in archive")
			continue
		}

		var ws xlsxWorksheet
		if err := decodeZipXML(sheetFile, &ws); err != nil {
			e.logger.Warn().Err(err).Str("sheet", sheet.Name).Msg("Failed to parse worksheet")
			continue
		}

		headers, rows := e.sheetToTable(ws, shared)
		if len(headers) == 0 || len(rows) == 0 {
			continue
		}

		result.Tables = append(result.Tables, models.RawTable{
			Headers:    headers,
			Rows:       rows,
			Caption:    fmt.Sprintf("Sheet: %s", sheet.Name),
			Confidence: models.Confidence(xlsxConfidence),
		})
	}

	return result, nil
}

func (e *XlsxExtractor) loadSharedStrings(files map[string]*zip.File) []string {
	f := files["xl/sharedStrings.xml"]
	if f == nil {
		return nil
	}

	var sst xlsxSharedStrings
	if err := decodeZipXML(f, &sst); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to parse shared strings")
		return nil
	}

	strs := make([]string, len(sst.SI))
	for i, si := range sst.SI {
		if len(si.R) > 0 {
			var sb strings.Builder
			for _, run := range si.R {
				sb.WriteString(run.T)
			}
			strs[i] = sb.String()
		} else {
			strs[i] = si.T
		}
	}
	return strs
}

// sheetToTable converts worksheet rows into header and data rows,
// resolving shared string references and cell column positions.
func (e *XlsxExtractor) sheetToTable(ws xlsxWorksheet, shared []string) ([]string, [][]string) {
	var headers []string
	var rows [][]string

	for rowNum, row := range ws.SheetData.Row {
		cells := make([]string, 0, len(row.C))
		for _, c := range row.C {
			value := c.V
			if c.T == "s" {
				if idx, err := strconv.Atoi(c.V); err == nil && idx >= 0 && idx < len(shared) {
					value = shared[idx]
				}
			}
			// Pad skipped columns so values line up with headers.
			if col := columnIndex(c.R); col >= 0 {
				for len(cells) < col {
					cells = append(cells, "")
				}
			}
			cells = append(cells, value)
		}

		if rowNum == 0 {
			headers = cells
		} else {
			rows = append(rows, cells)
		}
	}

	return headers, rows
}

// columnIndex converts a cell reference like "C7" to a zero-based column
// index (2). Returns -1 when the reference is missing.
func columnIndex(ref string) int {
	if ref == "" {
		return -1
	}
	col := 0
	for _, r := range ref {
		if r >= 'A' && r <= 'Z' {
			col = col*26 + int(r-'A') + 1
		} else {
			break
		}
	}
	return col - 1
}

func decodeZipXML(f *zip.File, v interface{}) error {
	if f == nil {
		return fmt.Errorf("file not found in archive")
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}
