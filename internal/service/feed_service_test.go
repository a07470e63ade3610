package service

import (
	"context"
	"errors"
	"testing"

	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/pkg/events"
	pktNats "shiftdesk-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	subject, durable string
	handler          pktNats.EventHandler
}

func (s *fakeSubscriber) Subscribe(_ context.Context, subject, durable string, handler pktNats.EventHandler) error {
	s.subject, s.durable, s.handler = subject, durable, handler
	return nil
}

type sinkCall struct {
	orgID   uuid.UUID
	payload interface{}
}

type fakeSink struct {
	calls []sinkCall
	err   error
}

func (s *fakeSink) SendToOrganization(_ context.Context, orgID uuid.UUID, payload interface{}) error {
	s.calls = append(s.calls, sinkCall{orgID: orgID, payload: payload})
	return s.err
}

func TestFeedService(t *testing.T) {
	sub := &fakeSubscriber{}
	sink := &fakeSink{}
	feed := NewFeedService(sub, sink, "feed-worker", logger.NewNopLogger())

	require.NoError(t, feed.Start(context.Background()))
	assert.Equal(t, "events.>", sub.subject)
	assert.Equal(t, "feed-worker", sub.durable)
	require.NotNil(t, sub.handler)

	orgID := uuid.New()
	event := events.New(events.TicketCreated, map[string]interface{}{
		"organization_id": orgID.String(),
		"ticket_id":       "t-1",
	})
	require.NoError(t, sub.handler(context.Background(), event))

	require.Len(t, sink.calls, 1)
	assert.Equal(t, orgID, sink.calls[0].orgID)
	msg, ok := sink.calls[0].payload.(FeedMessage)
	require.True(t, ok)
	assert.Equal(t, events.TicketCreated, msg.Type)
	assert.Equal(t, "t-1", msg.Data["ticket_id"])
	assert.NotEmpty(t, msg.OccurredAt)

	// No organization: dropped without redelivery.
	require.NoError(t, feed.Handle(context.Background(), events.New("SYSTEM", nil)))
	assert.Len(t, sink.calls, 1)

	// Relay failures are not redelivered either.
	sink.err = errors.New("redis down")
	assert.NoError(t, feed.Handle(context.Background(), event))
	assert.Len(t, sink.calls, 2)
}
