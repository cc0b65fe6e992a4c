package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/services/events"
	"github.com/ternarybob/docsift/internal/services/extract"
	"github.com/ternarybob/docsift/internal/services/normalize"
	"github.com/ternarybob/docsift/internal/services/parser"
)

func main() {
	// Load configuration
	configPath := os.Getenv("DOCSIFT_CONFIG")
	if configPath == "" {
		configPath = "docsift.toml"
	}

	var config *common.Config
	var err error
	if _, statErr := os.Stat(configPath); statErr == nil {
		config, err = common.LoadFromFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	} else {
		config = common.NewDefaultConfig()
	}

	// Initialize minimal logger for MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	// Wire the parse pipeline
	store := parser.NewMemoryStore(config.Parser.MaxStoredFiles)
	parserService := parser.NewService(
		config,
		extract.NewRegistry(config.Parser, logger),
		normalize.NewService(config.Classifier, logger),
		store,
		events.NewService(logger),
		logger,
	)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"docsift",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register document parsing tools
	mcpServer.AddTool(createParseDocumentTool(), handleParseDocument(parserService, logger))
	mcpServer.AddTool(createGetResultTool(), handleGetResult(store, logger))
	mcpServer.AddTool(createListResultsTool(), handleListResults(store, logger))
	mcpServer.AddTool(createExportResultTool(), handleExportResult(store, logger))
	mcpServer.AddTool(createListFormatsTool(), handleListFormats(parserService))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
