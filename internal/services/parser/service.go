package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/common"
	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/models"
	"github.com/ternarybob/docsift/internal/services/extract"
	"github.com/ternarybob/docsift/internal/services/normalize"
)

// Service runs the parse pipeline: pick an extractor, extract raw
// content, normalize it into categorized blocks, aggregate statistics,
// and store the result. Extraction failures are recorded on the result
// rather than returned, so a bad file still produces a visible outcome.
type Service struct {
	config     *common.Config
	registry   *extract.Registry
	normalizer *normalize.Service
	store      interfaces.ResultStore
	events     interfaces.EventService
	timeout    time.Duration
	logger     arbor.ILogger
}

var _ interfaces.ParserService = (*Service)(nil)

func NewService(
	config *common.Config,
	registry *extract.Registry,
	normalizer *normalize.Service,
	store interfaces.ResultStore,
	events interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	timeout, err := time.ParseDuration(config.Parser.ParseTimeout)
	if err != nil || timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Service{
		config:     config,
		registry:   registry,
		normalizer: normalizer,
		store:      store,
		events:     events,
		timeout:    timeout,
		logger:     logger,
	}
}

func (s *Service) SupportedExtensions() []string {
	return s.registry.SupportedExtensions()
}

func (s *Service) Parse(ctx context.Context, path string, filename string) (*models.ParseResult, error) {
	start := time.Now()
	fileType := extract.FileExtension(filename)

	result := models.NewParseResult(filename, fileType)

	s.logger.Info().
		Str("filename", filename).
		Str("file_type", fileType).
		Msg("Parsing document")

	s.publish(ctx, interfaces.EventParseStarted, models.ParseEvent{Filename: filename, FileType: fileType})

	parseCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	extractor, dedicated := s.registry.ForFile(filename)
	if !dedicated {
		s.logger.Debug().Str("filename", filename).Msg("No dedicated extractor, using generic fallback")
	}

	raw, err := s.extract(parseCtx, extractor, path, filename)
	if err != nil {
		result.Error = err.Error()
	}
	// Partial content gathered before a failure is still kept.
	result.ContentTypes = s.normalizer.Normalize(raw)
	result.RawResults = raw

	result.DurationMs = time.Since(start).Milliseconds()
	result.Statistics = normalize.Aggregate(result.ContentTypes, result.DurationMs)
	s.store.Put(result)

	if result.Failed() {
		s.logger.Warn().
			Str("filename", filename).
			Str("error", result.Error).
			Msg("Parse failed")
		s.publish(ctx, interfaces.EventParseFailed, models.ParseEvent{Filename: filename, FileType: fileType, Error: result.Error})
		return result, nil
	}

	s.logger.Info().
		Str("filename", filename).
		Int64("duration_ms", result.DurationMs).
		Int("text_blocks", result.Statistics.TotalTextBlocks).
		Int("images", result.Statistics.TotalImages).
		Int("tables", result.Statistics.TotalTables).
		Msg("Parse completed")
	s.publish(ctx, interfaces.EventParseCompleted, models.ParseEvent{Filename: filename, FileType: fileType})

	return result, nil
}

// extract runs the extractor with panic recovery so one malformed
// document cannot take the server down.
func (s *Service) extract(ctx context.Context, extractor interfaces.Extractor, path, filename string) (raw *models.RawResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("filename", filename).
				Msgf("Extractor panic: %v", r)
			raw = nil
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return extractor.Extract(ctx, path, filename)
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload models.ParseEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event", string(eventType)).Msg("Failed to publish event")
	}
}
