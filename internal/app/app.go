package app

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/handlers"
	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/services/events"
	"github.com/ternarybob/docsift/internal/services/extract"
	"github.com/ternarybob/docsift/internal/services/format"
	"github.com/ternarybob/docsift/internal/services/normalize"
	"github.com/ternarybob/docsift/internal/services/parser"
)

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	ctx       context.Context
	cancelCtx context.CancelFunc

	// Core services
	EventService  interfaces.EventService
	Registry      *extract.Registry
	Normalizer    *normalize.Service
	ResultStore   interfaces.ResultStore
	ParserService interfaces.ParserService
	PDFService    *format.PDFService

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	ParseHandler   *handlers.ParseHandler
	ResultsHandler *handlers.ResultsHandler
	ExportHandler  *handlers.ExportHandler
	PageHandler    *handlers.PageHandler
	WSHandler      *handlers.WebSocketHandler
}

// New creates the application with all services and handlers wired.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		Config:    cfg,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	a.EventService = events.NewService(logger)
	if err := events.SubscribeLoggerToAllEvents(a.EventService, logger); err != nil {
		cancel()
		return nil, err
	}
	a.Registry = extract.NewRegistry(cfg.Parser, logger)
	a.Normalizer = normalize.NewService(cfg.Classifier, logger)
	a.ResultStore = parser.NewMemoryStore(cfg.Parser.MaxStoredFiles)
	a.ParserService = parser.NewService(cfg, a.Registry, a.Normalizer, a.ResultStore, a.EventService, logger)
	a.PDFService = format.NewPDFService(logger)

	a.APIHandler = handlers.NewAPIHandler(cfg, a.ParserService, a.ResultStore)
	a.ParseHandler = handlers.NewParseHandler(cfg, a.ParserService)
	a.ResultsHandler = handlers.NewResultsHandler(a.ResultStore, a.EventService)
	a.ExportHandler = handlers.NewExportHandler(a.ResultStore, a.PDFService)
	a.PageHandler = handlers.NewPageHandler(logger, cfg.Logging.ClientDebug)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, logger, &cfg.WebSocket)

	logger.Info().
		Int("extensions", len(a.Registry.SupportedExtensions())).
		Bool("ocr_enabled", cfg.Parser.OCREnabled).
		Msg("Application initialized")

	return a, nil
}

// Close shuts down application services.
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application")
	a.cancelCtx()

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Event service shutdown error")
		}
	}
	return nil
}
