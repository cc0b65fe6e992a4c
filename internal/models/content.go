package models

// Text block classification types assigned by the classifier.
const (
	BlockTypeHeader    = "header"
	BlockTypeList      = "list"
	BlockTypeShortText = "short_text"
	BlockTypeCaption   = "caption"
	BlockTypeParagraph = "paragraph"
	BlockTypeInfo      = "info"
	BlockTypeOCR       = "ocr_extracted"
)

// TextBlock is a classified segment of document text.
type TextBlock struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Type       string  `json:"type"`
	Length     int     `json:"length"`
	WordCount  int     `json:"word_count"`
	LineNumber int     `json:"line_number,omitempty"`
	Page       int     `json:"page,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ImageItem describes an image discovered in a document.
type ImageItem struct {
	ID            string            `json:"id"`
	Caption       string            `json:"caption"`
	Description   string            `json:"description"`
	AltText       string            `json:"alt_text,omitempty"`
	Path          string            `json:"path,omitempty"`
	Format        string            `json:"format,omitempty"`
	Page          int               `json:"page,omitempty"`
	ExtractedText string            `json:"extracted_text,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Confidence    float64           `json:"confidence"`
}

// TableItem is an extracted table with header row and data rows.
// Rows with a cell count different from the header are kept as-is
// and flagged via Ragged rather than padded or truncated.
type TableItem struct {
	ID         string     `json:"id"`
	Caption    string     `json:"caption"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
	RowCount   int        `json:"row_count"`
	ColCount   int        `json:"col_count"`
	DataTypes  []string   `json:"data_types,omitempty"`
	Ragged     bool       `json:"ragged,omitempty"`
	Confidence float64    `json:"confidence"`
}

// EquationItem is a detected mathematical expression.
type EquationItem struct {
	ID          string   `json:"id"`
	LaTeX       string   `json:"latex"`
	Description string   `json:"description"`
	Type        string   `json:"type"` // "inline" or "display"
	Variables   []string `json:"variables,omitempty"`
	Context     string   `json:"context,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// ContentTypes groups the categorised content of a parsed document.
type ContentTypes struct {
	TextBlocks []TextBlock       `json:"text_blocks"`
	Images     []ImageItem       `json:"images"`
	Tables     []TableItem       `json:"tables"`
	Equations  []EquationItem    `json:"equations"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Statistics summarises the extracted content of a document.
type Statistics struct {
	TotalTextBlocks  int   `json:"total_text_blocks"`
	TotalImages      int   `json:"total_images"`
	TotalTables      int   `json:"total_tables"`
	TotalEquations   int   `json:"total_equations"`
	TotalWords       int   `json:"total_words"`
	TotalCharacters  int   `json:"total_characters"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}
