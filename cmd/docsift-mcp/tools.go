package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createParseDocumentTool returns the parse_document tool definition
func createParseDocumentTool() mcp.Tool {
	return mcp.NewTool("parse_document",
		mcp.WithDescription("Parse a local document (PDF, DOCX, XLSX, PPTX, image or text) and extract categorized content"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path to the document on disk"),
		),
	)
}

// createGetResultTool returns the get_result tool definition
func createGetResultTool() mcp.Tool {
	return mcp.NewTool("get_result",
		mcp.WithDescription("Retrieve the full parse result for a previously parsed document as JSON"),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("Filename of the parsed document"),
		),
	)
}

// createListResultsTool returns the list_results tool definition
func createListResultsTool() mcp.Tool {
	return mcp.NewTool("list_results",
		mcp.WithDescription("List all parsed documents with their content statistics"),
	)
}

// createExportResultTool returns the export_result tool definition
func createExportResultTool() mcp.Tool {
	return mcp.NewTool("export_result",
		mcp.WithDescription("Export a parse result as a formatted report"),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("Filename of the parsed document"),
		),
		mcp.WithString("format",
			mcp.Description("Export format: json or markdown (default: markdown)"),
		),
	)
}

// createListFormatsTool returns the list_formats tool definition
func createListFormatsTool() mcp.Tool {
	return mcp.NewTool("list_formats",
		mcp.WithDescription("List the file extensions supported for parsing"),
	)
}
