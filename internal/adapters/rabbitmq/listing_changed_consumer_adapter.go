package rabbitmq

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Edmond40/afari-real-estate-sub000/internal/constants"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contracts"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
	usecases_port "github.com/Edmond40/afari-real-estate-sub000/internal/core/port/usecases_port"
	"github.com/Edmond40/afari-real-estate-sub000/pkg/rabbitmq/rabbitmq_common"
	"github.com/Edmond40/afari-real-estate-sub000/pkg/rabbitmq/rabbitmq_consumer"
)

// ListingChangedEventDTO - тело события listing.changed.
type ListingChangedEventDTO struct {
	EventID    string `json:"event_id"`
	ListingID  string `json:"listing_id"`
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at,omitempty"`
}

// ListingChangedConsumerAdapter - входящий адаптер: слушает изменения объявлений
// и вызывает use case инвалидации кэша.
type ListingChangedConsumerAdapter struct {
	consumer  *rabbitmq_consumer.Consumer
	useCase   usecases_port.InvalidateListingsUseCase
	contracts *contracts.Registry
	logger    port.LoggerPort
}

func NewListingChangedConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.InvalidateListingsUseCase,
	registry *contracts.Registry,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ListingChangedConsumerAdapter, error) {
	adapter := &ListingChangedConsumerAdapter{
		useCase:   useCase,
		contracts: registry,
		logger:    logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.handle, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for listing changes: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

func (a *ListingChangedConsumerAdapter) Start(ctx context.Context) error {
	a.logger.Info("Starting listing change consumer", nil)
	return a.consumer.StartConsuming(ctx)
}

func (a *ListingChangedConsumerAdapter) Close() error {
	return a.consumer.Close()
}

// handle разбирает одно сообщение. Невалидные сообщения помечаются ErrPermanent
// и не возвращаются в очередь.
func (a *ListingChangedConsumerAdapter) handle(ctx context.Context, d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"adapter_name": "ListingChangedConsumerAdapter",
	})

	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if eventType == "" {
		eventType, eventVersion = contracts.EventTypeListingChanged, contracts.EventVersionV1
	}
	if err := a.contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return fmt.Errorf("%w: %v", rabbitmq_consumer.ErrPermanent, err)
	}

	var dto ListingChangedEventDTO
	if err := sonic.Unmarshal(d.Body, &dto); err != nil {
		return fmt.Errorf("%w: failed to unmarshal listing changed event: %v", rabbitmq_consumer.ErrPermanent, err)
	}

	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	return a.useCase.Execute(ctx, domain.ListingChangedEvent{
		EventID:   dto.EventID,
		ListingID: dto.ListingID,
		Action:    dto.Action,
	})
}
