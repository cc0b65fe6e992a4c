package models

import "time"

// ParseResult is the full outcome of parsing one uploaded document.
// A failed parse carries Error and empty content rather than being dropped,
// so the UI can show what went wrong per file.
type ParseResult struct {
	Filename       string       `json:"filename"`
	FileType       string       `json:"file_type"`
	FileSize       int64        `json:"file_size"`
	ProcessingTime string       `json:"processing_time"` // RFC3339 timestamp of the parse
	DurationMs     int64        `json:"duration_ms"`
	ContentTypes   ContentTypes `json:"content_types"`
	Statistics     Statistics   `json:"statistics"`
	RawResults     *RawResult   `json:"raw_results,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// NewParseResult creates a result stamped with the current time.
func NewParseResult(filename, fileType string) *ParseResult {
	return &ParseResult{
		Filename:       filename,
		FileType:       fileType,
		ProcessingTime: time.Now().Format(time.RFC3339),
	}
}

// Failed reports whether the parse ended in an error.
func (r *ParseResult) Failed() bool {
	return r.Error != ""
}

// ParseEvent is the payload published for parse lifecycle events.
type ParseEvent struct {
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Error    string `json:"error,omitempty"`
}

// ResultSummary is the list view of a stored result.
type ResultSummary struct {
	Filename       string     `json:"filename"`
	FileType       string     `json:"file_type"`
	FileSize       int64      `json:"file_size"`
	ProcessingTime string     `json:"processing_time"`
	DurationMs     int64      `json:"duration_ms"`
	Statistics     Statistics `json:"statistics"`
	Error          string     `json:"error,omitempty"`
}
