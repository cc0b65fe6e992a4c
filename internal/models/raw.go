package models

// Confidence wraps an explicit extraction score for a raw item. A nil
// score means the extractor supplied none and the normaliser defaults
// it; an explicit zero is preserved.
func Confidence(v float64) *float64 {
	return &v
}

// RawText is an un-normalised text segment as produced by an extractor.
// Type may be pre-assigned by the extractor (e.g. OCR output); when empty
// the normaliser classifies the content itself. LineNumber is the
// segment's 1-based position in the source split sequence; positions
// skipped by discarded empty segments stay skipped, so gaps carry
// through to block IDs.
type RawText struct {
	ID         string   `json:"id,omitempty"`
	Content    string   `json:"content"`
	Type       string   `json:"type,omitempty"`
	Page       int      `json:"page,omitempty"`
	LineNumber int      `json:"line_number,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// RawImage is an un-normalised image record.
type RawImage struct {
	Caption       string            `json:"caption,omitempty"`
	Description   string            `json:"description,omitempty"`
	AltText       string            `json:"alt_text,omitempty"`
	Format        string            `json:"format,omitempty"`
	Page          int               `json:"page,omitempty"`
	ExtractedText string            `json:"extracted_text,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Confidence    *float64          `json:"confidence,omitempty"`
}

// RawTable is an un-normalised table. Row and column counts are never
// carried here; the normaliser always recomputes them.
type RawTable struct {
	Caption    string     `json:"caption,omitempty"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
	DataTypes  []string   `json:"data_types,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
}

// RawEquation is an un-normalised detected equation.
type RawEquation struct {
	LaTeX       string   `json:"latex"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Variables   []string `json:"variables,omitempty"`
	Context     string   `json:"context,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// RawResult is the format-specific output of an extractor before
// normalisation into ContentTypes.
type RawResult struct {
	TextBlocks []RawText         `json:"text_blocks"`
	Images     []RawImage        `json:"images"`
	Tables     []RawTable        `json:"tables"`
	Equations  []RawEquation     `json:"equations"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewRawResult returns an empty result carrying file type metadata.
func NewRawResult(fileType string) *RawResult {
	return &RawResult{
		Metadata: map[string]string{
			"file_type": fileType,
		},
	}
}
