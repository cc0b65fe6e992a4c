package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZipFixture builds a minimal office archive from name -> content.
func writeZipFixture(t *testing.T, filename string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestDocxExtractor_ParagraphsAndTables(t *testing.T) {
	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Quarterly Summary</w:t></w:r></w:p>
<w:p><w:r><w:t>Revenue grew steadily across every region this quarter, driven by strong demand for the new product line and renewals.</w:t></w:r></w:p>
<w:p></w:p>
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Region</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Revenue</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>North</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>120</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>South</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>95</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
</w:body>
</w:document>`

	path := writeZipFixture(t, "report.docx", map[string]string{
		"word/document.xml":   document,
		"word/media/image1.png": "fakeimagedata",
	})

	e := NewDocxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "report.docx")
	require.NoError(t, err)

	require.Len(t, result.TextBlocks, 2)
	assert.Equal(t, "Quarterly Summary", result.TextBlocks[0].Content)
	assert.InDelta(t, 0.97, *result.TextBlocks[0].Confidence, 0.001)

	require.Len(t, result.Tables, 1)
	table := result.Tables[0]
	assert.Equal(t, []string{"Region", "Revenue"}, table.Headers)
	assert.Equal(t, [][]string{{"North", "120"}, {"South", "95"}}, table.Rows)
	assert.Equal(t, "Table 1 from document", table.Caption)
	assert.InDelta(t, 0.92, *table.Confidence, 0.001)

	require.Len(t, result.Images, 1)
	assert.Equal(t, "image1.png", result.Images[0].Caption)
	assert.Equal(t, "png", result.Images[0].Format)
	assert.Equal(t, "docx_media", result.Images[0].Metadata["source"])
}

func TestDocxExtractor_HeadingStyle(t *testing.T) {
	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>introduction and background material for the reader</w:t></w:r></w:p>
</w:body>
</w:document>`

	path := writeZipFixture(t, "styled.docx", map[string]string{
		"word/document.xml": document,
	})

	e := NewDocxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "styled.docx")
	require.NoError(t, err)

	// All lowercase and short, so only the style marks it as a header.
	require.Len(t, result.TextBlocks, 1)
	assert.Equal(t, "header", result.TextBlocks[0].Type)
}

func TestDocxExtractor_MissingDocumentXML(t *testing.T) {
	path := writeZipFixture(t, "empty.docx", map[string]string{
		"other.txt": "nothing",
	})

	e := NewDocxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "empty.docx")
	require.NoError(t, err)
	assert.Empty(t, result.TextBlocks)
	assert.NotEmpty(t, result.Metadata["parse_error"])
}

func TestDocxExtractor_NotAnArchiveFlaggedNotFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0644))

	e := NewDocxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "broken.docx")
	require.NoError(t, err)

	assert.Empty(t, result.TextBlocks)
	assert.Empty(t, result.Tables)
	assert.Empty(t, result.Images)
	assert.NotEmpty(t, result.Metadata["parse_error"])
	assert.Equal(t, "docx", result.Metadata["file_type"])
}

func TestXlsxExtractor_NotAnArchiveFlaggedNotFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("corrupt bytes"), 0644))

	e := NewXlsxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "broken.xlsx")
	require.NoError(t, err)

	assert.Empty(t, result.Tables)
	assert.NotEmpty(t, result.Metadata["parse_error"])
}

func TestXlsxExtractor_SharedStringsAndSheets(t *testing.T) {
	workbook := `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Sales" sheetId="1" r:id="rId1"/></sheets>
</workbook>`
	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`
	sharedStrings := `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="3" uniqueCount="3">
<si><t>Product</t></si><si><t>Units</t></si><si><t>Widget</t></si>
</sst>`
	sheet := `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>42</v></c></row>
</sheetData>
</worksheet>`

	path := writeZipFixture(t, "sales.xlsx", map[string]string{
		"xl/workbook.xml":            workbook,
		"xl/_rels/workbook.xml.rels": rels,
		"xl/sharedStrings.xml":       sharedStrings,
		"xl/worksheets/sheet1.xml":   sheet,
	})

	e := NewXlsxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "sales.xlsx")
	require.NoError(t, err)

	require.Len(t, result.Tables, 1)
	table := result.Tables[0]
	assert.Equal(t, "Sheet: Sales", table.Caption)
	assert.Equal(t, []string{"Product", "Units"}, table.Headers)
	assert.Equal(t, [][]string{{"Widget", "42"}}, table.Rows)
	assert.InDelta(t, 0.98, *table.Confidence, 0.001)
}

func TestXlsxExtractor_SkippedColumnsPadded(t *testing.T) {
	workbook := `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheets><sheet name="Gaps" sheetId="1"/></sheets></workbook>`
	rels := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	sheet := `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="1"><c r="A1"><v>a</v></c><c r="B1"><v>b</v></c><c r="C1"><v>c</v></c></row>
<row r="2"><c r="A2"><v>1</v></c><c r="C2"><v>3</v></c></row>
</sheetData>
</worksheet>`

	path := writeZipFixture(t, "gaps.xlsx", map[string]string{
		"xl/workbook.xml":            workbook,
		"xl/_rels/workbook.xml.rels": rels,
		"xl/worksheets/sheet1.xml":   sheet,
	})

	e := NewXlsxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "gaps.xlsx")
	require.NoError(t, err)

	require.Len(t, result.Tables, 1)
	assert.Equal(t, [][]string{{"1", "", "3"}}, result.Tables[0].Rows)
}

func TestPptxExtractor_SlidesInOrder(t *testing.T) {
	slide := func(text string) string {
		return `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`
	}

	path := writeZipFixture(t, "deck.pptx", map[string]string{
		"ppt/slides/slide2.xml":  slide("Second slide"),
		"ppt/slides/slide1.xml":  slide("First slide"),
		"ppt/slides/slide10.xml": slide("Tenth slide"),
	})

	e := NewPptxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "deck.pptx")
	require.NoError(t, err)

	require.Len(t, result.TextBlocks, 3)
	assert.Equal(t, "First slide", result.TextBlocks[0].Content)
	assert.Equal(t, 1, result.TextBlocks[0].Page)
	assert.Equal(t, "Second slide", result.TextBlocks[1].Content)
	assert.Equal(t, "Tenth slide", result.TextBlocks[2].Content)
	assert.Equal(t, 10, result.TextBlocks[2].Page)
	assert.Equal(t, "3", result.Metadata["total_slides"])
}

func TestPptxExtractor_MultipleRunsJoined(t *testing.T) {
	slideXML := `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree><p:sp><p:txBody>
<a:p><a:r><a:t>Hello </a:t></a:r><a:r><a:t>World</a:t></a:r></a:p>
<a:p></a:p>
</p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`

	path := writeZipFixture(t, "runs.pptx", map[string]string{
		"ppt/slides/slide1.xml": slideXML,
	})

	e := NewPptxExtractor(testLogger())
	result, err := e.Extract(context.Background(), path, "runs.pptx")
	require.NoError(t, err)

	require.Len(t, result.TextBlocks, 1)
	assert.Equal(t, "Hello World", result.TextBlocks[0].Content)
}
