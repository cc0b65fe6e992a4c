package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/docsift/internal/interfaces"
	"github.com/ternarybob/docsift/internal/models"
)

// NewLoggerSubscriber creates an event handler that logs all events
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		logEvent := logger.Debug().
			Str("event_type", string(event.Type))

		switch payload := event.Payload.(type) {
		case models.ParseEvent:
			logEvent = logEvent.Str("filename", payload.Filename).
				Str("file_type", payload.FileType)
			if payload.Error != "" {
				logEvent = logEvent.Str("error", payload.Error)
			}
		case map[string]interface{}:
			if filename, ok := payload["filename"].(string); ok {
				logEvent = logEvent.Str("filename", filename)
			}
		}

		logEvent.Msg("Event published")

		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	eventTypes := []interfaces.EventType{
		interfaces.EventParseStarted,
		interfaces.EventParseCompleted,
		interfaces.EventParseFailed,
		interfaces.EventResultDeleted,
	}

	for _, eventType := range eventTypes {
		if err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	return nil
}
