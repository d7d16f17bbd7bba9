package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Edmond40/afari-real-estate-sub000/internal/constants"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contracts"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

type capturingPublisher struct {
	routingKeys []string
	messages    []amqp.Publishing
	err         error
}

func (p *capturingPublisher) Publish(_ context.Context, routingKey string, msg amqp.Publishing) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.messages = append(p.messages, msg)
	return p.err
}

func newTestPublisher(t *testing.T) (*ListingChangedPublisherAdapter, *capturingPublisher) {
	t.Helper()
	registry, err := contracts.NewRegistry()
	require.NoError(t, err)

	producer := &capturingPublisher{}
	adapter, err := NewListingChangedPublisherAdapter(producer, registry)
	require.NoError(t, err)
	adapter.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return adapter, producer
}

func TestPublisher_PublishesValidEvent(t *testing.T) {
	adapter, producer := newTestPublisher(t)
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")

	err := adapter.Publish(ctx, domain.ListingChangedEvent{EventID: "e-1", ListingID: "42", Action: "UPDATED"})
	require.NoError(t, err)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, constants.RoutingKeyListingChanged, producer.routingKeys[0])
	assert.Equal(t, "e-1", msg.MessageId)
	assert.Equal(t, "trace-1", msg.Headers[constants.HeaderTraceID])
	assert.Equal(t, contracts.EventTypeListingChanged, msg.Headers[constants.HeaderEventType])
	assert.JSONEq(t, `{"event_id":"e-1","listing_id":"42","action":"updated","occurred_at":"2026-03-01T12:00:00Z"}`, string(msg.Body))
}

func TestPublisher_RoundTripThroughConsumer(t *testing.T) {
	adapter, producer := newTestPublisher(t)
	require.NoError(t, adapter.Publish(context.Background(), domain.ListingChangedEvent{ListingID: "7", Action: "deleted"}))

	consumer, uc := newTestAdapter(t)
	msg := producer.messages[0]
	require.NoError(t, consumer.handle(context.Background(), amqp.Delivery{Headers: msg.Headers, Body: msg.Body}))

	require.Len(t, uc.events, 1)
	assert.Equal(t, "7", uc.events[0].ListingID)
	assert.Equal(t, msg.MessageId, uc.events[0].EventID)
}

func TestPublisher_RejectsInvalidAction(t *testing.T) {
	adapter, producer := newTestPublisher(t)

	err := adapter.Publish(context.Background(), domain.ListingChangedEvent{ListingID: "1", Action: "archived"})

	require.Error(t, err)
	assert.Empty(t, producer.messages)
}

func TestPublisher_WrapsProducerError(t *testing.T) {
	adapter, producer := newTestPublisher(t)
	producer.err = errors.New("channel closed")

	err := adapter.Publish(context.Background(), domain.ListingChangedEvent{ListingID: "1", Action: "created"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}
