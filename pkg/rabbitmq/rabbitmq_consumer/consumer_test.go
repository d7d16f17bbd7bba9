package rabbitmq_consumer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Edmond40/afari-real-estate-sub000/pkg/rabbitmq/rabbitmq_common"
)

func TestDecide(t *testing.T) {
	transient := errors.New("cache unavailable")
	permanent := fmt.Errorf("bad payload: %w", ErrPermanent)

	assert.Equal(t, actionAck, decide(nil, false))
	assert.Equal(t, actionAck, decide(nil, true))
	assert.Equal(t, actionRequeue, decide(transient, false))
	assert.Equal(t, actionDrop, decide(transient, true))
	assert.Equal(t, actionDrop, decide(permanent, false))
}

func TestConsumerConfigValidate(t *testing.T) {
	base := rabbitmq_common.Config{URL: "amqp://localhost:5672/"}

	assert.NoError(t, ConsumerConfig{Config: base, QueueName: "q"}.validate())
	assert.Error(t, ConsumerConfig{Config: base, ExchangeName: "listings"}.validate())
	assert.Error(t, ConsumerConfig{QueueName: "q"}.validate())
}
