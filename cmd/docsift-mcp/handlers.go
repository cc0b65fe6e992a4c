package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/services/format"
	"github.com/ternarybob/docsift/internal/services/parser"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleParseDocument implements the parse_document tool
func handleParseDocument(parserService interfaces.ParserService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return textResult("Error: path parameter is required"), nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return textResult(fmt.Sprintf("Error: cannot access %s: %v", path, err)), nil
		}

		filename := filepath.Base(path)
		if err := parserService.ValidateUpload(filename, info.Size()); err != nil {
			return textResult(fmt.Sprintf("Error: %v", err)), nil
		}

		result, err := parserService.Parse(ctx, path, filename)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Parse failed")
			return textResult(fmt.Sprintf("Parse error: %v", err)), nil
		}
		if result.Failed() {
			return textResult(fmt.Sprintf("Parse failed for %s: %s", filename, result.Error)), nil
		}

		return textResult(format.Markdown(result)), nil
	}
}

// handleGetResult implements the get_result tool
func handleGetResult(store *parser.MemoryStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filename, err := request.RequireString("filename")
		if err != nil || filename == "" {
			return textResult("Error: filename parameter is required"), nil
		}

		result, ok := store.Get(filename)
		if !ok {
			return textResult(fmt.Sprintf("No result found for %q. Use parse_document first.", filename)), nil
		}
		return textResult(format.JSON(result)), nil
	}
}

// handleListResults implements the list_results tool
func handleListResults(store *parser.MemoryStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries := store.List()
		if len(summaries) == 0 {
			return textResult("No parsed documents."), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# Parsed Documents (%d)\n\n", len(summaries)))
		for _, s := range summaries {
			sb.WriteString(fmt.Sprintf("- **%s** (%s): %d text blocks, %d images, %d tables, %d equations",
				s.Filename, s.FileType,
				s.Statistics.TotalTextBlocks, s.Statistics.TotalImages,
				s.Statistics.TotalTables, s.Statistics.TotalEquations))
			if s.Error != "" {
				sb.WriteString(" [failed]")
			}
			sb.WriteString("\n")
		}
		return textResult(sb.String()), nil
	}
}

// handleExportResult implements the export_result tool
func handleExportResult(store *parser.MemoryStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filename, err := request.RequireString("filename")
		if err != nil || filename == "" {
			return textResult("Error: filename parameter is required"), nil
		}

		result, ok := store.Get(filename)
		if !ok {
			return textResult(fmt.Sprintf("No result found for %q. Use parse_document first.", filename)), nil
		}

		switch strings.ToLower(request.GetString("format", "markdown")) {
		case "json":
			return textResult(format.JSON(result)), nil
		case "markdown", "md":
			return textResult(format.Markdown(result)), nil
		default:
			return textResult("Error: format must be json or markdown"), nil
		}
	}
}

// handleListFormats implements the list_formats tool
func handleListFormats(parserService interfaces.ParserService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult("Supported extensions: " + strings.Join(parserService.SupportedExtensions(), ", ")), nil
	}
}
