package format

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// PDFService renders a Markdown report as a PDF document.
type PDFService struct {
	logger arbor.ILogger
}

func NewPDFService(logger arbor.ILogger) *PDFService {
	return &PDFService{logger: logger}
}

// RenderPDF converts Markdown content to PDF bytes. The report title is
// expected to be the leading H1 heading in the content.
func (s *PDFService) RenderPDF(markdown string) ([]byte, error) {
	s.logger.Debug().Int("markdown_len", len(markdown)).Msg("Rendering PDF report")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 9)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	)

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	renderer := &reportRenderer{
		pdf:    pdf,
		source: source,
		font:   "Arial",
		size:   9,
	}
	if err := ast.Walk(doc, renderer.walk); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render PDF")
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("PDF report generated")
	return buf.Bytes(), nil
}

type reportRenderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	font   string
	size   float64
	bold   bool
}

func (r *reportRenderer) resetFont() {
	style := ""
	if r.bold {
		style = "B"
	}
	r.pdf.SetFont(r.font, style, r.size)
}

func (r *reportRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(5)
			size := 14.0 - float64(node.Level)
			if size < 10 {
				size = 10
			}
			r.pdf.SetFont(r.font, "B", size)
		} else {
			r.pdf.Ln(6)
			r.resetFont()
		}
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(6)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(5, sanitizeForPDF(string(node.Text(r.source))))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
			r.resetFont()
		}
	case *ast.CodeSpan:
		if entering {
			r.pdf.SetFont("Courier", "", r.size)
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					r.pdf.Write(5, sanitizeForPDF(string(t.Segment.Value(r.source))))
				}
			}
		} else {
			r.resetFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			r.renderCode(node.Lines())
			return ast.WalkSkipChildren, nil
		}
	case *ast.CodeBlock:
		if entering {
			r.renderCode(node.Lines())
			return ast.WalkSkipChildren, nil
		}
	case *ast.List:
		if !entering {
			r.pdf.Ln(2)
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(15)
			r.pdf.Write(5, "- ")
		}
	case *extast.Table:
		if entering {
			r.renderTable(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (r *reportRenderer) renderCode(lines *text.Segments) {
	r.pdf.Ln(2)
	r.pdf.SetFont("Courier", "", 8)
	r.pdf.SetFillColor(245, 245, 245)
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.pdf.MultiCell(0, 4.5, sanitizeForPDF(string(seg.Value(r.source))), "", "L", true)
	}
	r.pdf.SetFillColor(255, 255, 255)
	r.resetFont()
	r.pdf.Ln(2)
}

// renderTable draws a table with equal column widths. Cell text is
// clipped to the column width.
func (r *reportRenderer) renderTable(table *extast.Table) {
	var rows [][]string
	for section := table.FirstChild(); section != nil; section = section.NextSibling() {
		switch sec := section.(type) {
		case *extast.TableHeader:
			for row := sec.FirstChild(); row != nil; row = row.NextSibling() {
				if tr, ok := row.(*extast.TableRow); ok {
					rows = append(rows, r.rowCells(tr))
				}
			}
			// TableHeader may itself hold the cells.
			if cells := r.rowCells(sec); len(cells) > 0 && len(rows) == 0 {
				rows = append(rows, cells)
			}
		case *extast.TableRow:
			rows = append(rows, r.rowCells(sec))
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	r.pdf.Ln(2)
	colWidth := 190.0 / float64(len(rows[0]))
	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(r.font, "B", 8)
			r.pdf.SetFillColor(230, 230, 230)
		} else {
			r.pdf.SetFont(r.font, "", 8)
			r.pdf.SetFillColor(255, 255, 255)
		}
		for _, cell := range row {
			text := sanitizeForPDF(cell)
			for r.pdf.GetStringWidth(text) > colWidth-2 && len(text) > 3 {
				text = text[:len(text)-4] + "..."
			}
			r.pdf.CellFormat(colWidth, 5.5, text, "1", 0, "L", i == 0, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.Ln(3)
	r.resetFont()
}

func (r *reportRenderer) rowCells(n ast.Node) []string {
	var cells []string
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, string(cell.Text(r.source)))
		}
	}
	return cells
}

// sanitizeForPDF replaces runes the core fonts cannot encode. Emoji and
// other non-Latin-1 characters become spaces so section headings still
// render cleanly.
func sanitizeForPDF(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\t' {
			out = append(out, ' ', ' ')
			continue
		}
		if r > 0xFF && r != '\n' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
