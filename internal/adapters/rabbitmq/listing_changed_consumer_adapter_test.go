package rabbitmq

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Edmond40/afari-real-estate-sub000/internal/constants"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/contracts"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
	"github.com/Edmond40/afari-real-estate-sub000/pkg/rabbitmq/rabbitmq_consumer"
)

type recordingUseCase struct {
	events   []domain.ListingChangedEvent
	traceIDs []string
}

func (u *recordingUseCase) Execute(ctx context.Context, e domain.ListingChangedEvent) error {
	u.events = append(u.events, e)
	u.traceIDs = append(u.traceIDs, contextkeys.TraceIDFromContext(ctx))
	return nil
}

func newTestAdapter(t *testing.T) (*ListingChangedConsumerAdapter, *recordingUseCase) {
	t.Helper()
	registry, err := contracts.NewRegistry()
	require.NoError(t, err)

	uc := &recordingUseCase{}
	return &ListingChangedConsumerAdapter{
		useCase:   uc,
		contracts: registry,
		logger:    contextkeys.LoggerFromContext(context.Background()),
	}, uc
}

func TestHandle_ValidEvent(t *testing.T) {
	a, uc := newTestAdapter(t)

	err := a.handle(context.Background(), amqp.Delivery{
		Headers: amqp.Table{
			constants.HeaderEventType:    contracts.EventTypeListingChanged,
			constants.HeaderEventVersion: contracts.EventVersionV1,
			constants.HeaderTraceID:      "trace-7",
		},
		Body: []byte(`{"event_id":"e1","listing_id":"42","action":"deleted"}`),
	})
	require.NoError(t, err)

	require.Len(t, uc.events, 1)
	assert.Equal(t, domain.ListingChangedEvent{EventID: "e1", ListingID: "42", Action: "deleted"}, uc.events[0])
	assert.Equal(t, "trace-7", uc.traceIDs[0])
}

func TestHandle_MissingHeadersDefaultToV1(t *testing.T) {
	a, uc := newTestAdapter(t)

	err := a.handle(context.Background(), amqp.Delivery{Body: []byte(`{"event_id":"e2","listing_id":"1","action":"created"}`)})
	require.NoError(t, err)
	assert.Len(t, uc.events, 1)
	assert.NotEmpty(t, uc.traceIDs[0])
}

func TestHandle_InvalidEventIsPermanent(t *testing.T) {
	a, uc := newTestAdapter(t)

	err := a.handle(context.Background(), amqp.Delivery{Body: []byte(`{"listing_id":"1","action":"moved"}`)})

	assert.ErrorIs(t, err, rabbitmq_consumer.ErrPermanent)
	assert.Empty(t, uc.events)
}

type captureLogger struct {
	fields port.Fields
}

func (c *captureLogger) Info(string, port.Fields)         {}
func (c *captureLogger) Warn(string, port.Fields)         {}
func (c *captureLogger) Debug(msg string, f port.Fields)  { c.fields = f }
func (c *captureLogger) Error(string, error, port.Fields) {}
func (c *captureLogger) WithFields(port.Fields) port.LoggerPort {
	return c
}

func TestPkgLoggerBridge_SkipsBrokenPairs(t *testing.T) {
	l := &captureLogger{}
	NewPkgLoggerBridge(l).Debug("msg", "queue", "q1", 42, "x", "dangling")

	assert.Equal(t, port.Fields{"queue": "q1"}, l.fields)
}
