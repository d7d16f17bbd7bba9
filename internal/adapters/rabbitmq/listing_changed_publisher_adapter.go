package rabbitmq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Edmond40/afari-real-estate-sub000/internal/constants"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contracts"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ListingChangedPublisherAdapter публикует listing.changed. Используется
// административными утилитами, сервис сам событий не порождает.
type ListingChangedPublisherAdapter struct {
	producer   messagePublisher
	contracts  *contracts.Registry
	routingKey string
	now        func() time.Time
}

func NewListingChangedPublisherAdapter(producer messagePublisher, registry *contracts.Registry) (*ListingChangedPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("rabbitmq adapter: contracts registry cannot be nil")
	}
	return &ListingChangedPublisherAdapter{
		producer:   producer,
		contracts:  registry,
		routingKey: constants.RoutingKeyListingChanged,
		now:        time.Now,
	}, nil
}

func (a *ListingChangedPublisherAdapter) Publish(ctx context.Context, event domain.ListingChangedEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ListingChangedPublisherAdapter",
		"routing_key": a.routingKey,
		"listing_id":  event.ListingID,
	})

	msg, err := a.buildMessage(ctx, event)
	if err != nil {
		adapterLogger.Error("Refusing to publish invalid event", err, nil)
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish listing changed event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event for listing %s: %w", event.ListingID, err)
	}

	adapterLogger.Info("Listing changed event published", port.Fields{"event_id": msg.MessageId, "action": event.Action})
	return nil
}

func (a *ListingChangedPublisherAdapter) buildMessage(ctx context.Context, event domain.ListingChangedEvent) (amqp.Publishing, error) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	now := a.now().UTC()

	body, err := sonic.Marshal(ListingChangedEventDTO{
		EventID:    event.EventID,
		ListingID:  event.ListingID,
		Action:     strings.ToLower(event.Action),
		OccurredAt: now.Format(time.RFC3339),
	})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal listing changed event: %w", err)
	}
	if err := a.contracts.ValidateEvent(contracts.EventTypeListingChanged, contracts.EventVersionV1, body); err != nil {
		return amqp.Publishing{}, err
	}

	headers := amqp.Table{
		constants.HeaderEventType:    contracts.EventTypeListingChanged,
		constants.HeaderEventVersion: contracts.EventVersionV1,
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		headers[constants.HeaderTraceID] = traceID
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    now,
		Headers:      headers,
		Body:         body,
	}, nil
}
