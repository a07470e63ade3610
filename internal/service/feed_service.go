package service

import (
	"context"
	"time"

	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/pkg/events"
	pktNats "shiftdesk-be/pkg/nats"

	"github.com/google/uuid"
)

// FeedSink is satisfied by *websocket.Hub.
type FeedSink interface {
	SendToOrganization(ctx context.Context, orgID uuid.UUID, payload interface{}) error
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// FeedMessage is what admin dashboards receive over the live feed.
type FeedMessage struct {
	Type       string                 `json:"type"`
	OccurredAt string                 `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// FeedService forwards domain events from the bus to the organization's
// live feed connections.
type FeedService struct {
	subscriber EventSubscriber
	sink       FeedSink
	durable    string
	logger     logger.ILogger
}

func NewFeedService(subscriber EventSubscriber, sink FeedSink, durable string, log logger.ILogger) *FeedService {
	return &FeedService{subscriber: subscriber, sink: sink, durable: durable, logger: log}
}

// Start registers the durable consumer for every event subject.
func (s *FeedService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, events.SubjectPrefix+">", s.durable, s.Handle)
}

// Handle pushes one event to its organization. Events without an
// organization are dropped. Relay failures are logged, not redelivered,
// since local clients already received the message.
func (s *FeedService) Handle(ctx context.Context, event events.Event) error {
	orgID, err := uuid.Parse(events.OrganizationID(event))
	if err != nil {
		s.logger.Warn("FEED", "Event without organization dropped", map[string]interface{}{
			"type": event.EventType(),
		})
		return nil
	}

	msg := FeedMessage{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp().UTC().Format(time.RFC3339),
		Data:       event.Payload(),
	}
	if err := s.sink.SendToOrganization(ctx, orgID, msg); err != nil {
		s.logger.Error("FEED", "Failed to relay event", map[string]interface{}{
			"type":            event.EventType(),
			"organization_id": orgID,
			"error":           err.Error(),
		})
	}
	return nil
}
