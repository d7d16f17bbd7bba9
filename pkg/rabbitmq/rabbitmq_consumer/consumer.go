package rabbitmq_consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Edmond40/afari-real-estate-sub000/pkg/rabbitmq/rabbitmq_common"
)

// MessageHandler обрабатывает одно сообщение. Решение об ack/nack принимает пакет
// по возвращенной ошибке (см. ErrPermanent).
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// ErrPermanent помечает ошибку, при которой повторная доставка бессмысленна
// (невалидное сообщение). Такие сообщения отбрасываются сразу.
var ErrPermanent = errors.New("permanent message error")

// ConsumerConfig - настройки очереди, привязки и QoS.
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName       string // пусто - имя сгенерирует сервер
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table

	ExchangeName    string // пусто - очередь не привязывается
	ExchangeType    string
	DurableExchange bool
	RoutingKey      string

	PrefetchCount int
	ConsumerTag   string

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) validate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ExchangeName != "" && c.ExchangeType == "" {
		return fmt.Errorf("consumer: exchange type is required when exchange name is set")
	}
	return nil
}

// Consumer читает очередь и запускает обработчик на каждое сообщение в своей горутине.
type Consumer struct {
	config     ConsumerConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	handler    MessageHandler
	wg         sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func NewConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid config: %w", err)
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &Consumer{
		config:     cfg,
		connection: conn,
		channel:    ch,
		handler:    handler,
		Logger:     logger,
	}
	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}
	return c, nil
}

// setup объявляет обменник и очередь и связывает их.
func (c *Consumer) setup() error {
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if c.config.ExchangeName != "" {
		c.Logger.Debug("Declaring exchange", "name", c.config.ExchangeName, "type", c.config.ExchangeType)
		err := c.channel.ExchangeDeclare(
			c.config.ExchangeName,
			c.config.ExchangeType,
			c.config.DurableExchange,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", c.config.ExchangeName, err)
		}
	}

	q, err := c.channel.QueueDeclare(
		c.config.QueueName,
		c.config.DurableQueue,
		c.config.AutoDeleteQueue,
		c.config.ExclusiveQueue,
		false, // no-wait
		c.config.QueueArgs,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
	}
	c.queueName = q.Name

	if c.config.ExchangeName != "" {
		c.Logger.Debug("Binding queue", "queue", c.queueName, "exchange", c.config.ExchangeName, "routing_key", c.config.RoutingKey)
		if err := c.channel.QueueBind(c.queueName, c.config.RoutingKey, c.config.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s': %w", c.queueName, err)
		}
	}
	return nil
}

// StartConsuming блокируется до отмены контекста или закрытия соединения.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(
		c.queueName,
		c.config.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer %s: failed to register on queue '%s': %w", c.config.ConsumerTag, c.queueName, err)
	}
	c.Logger.Info("Waiting for messages", "queue", c.queueName)

	go c.dispatch(ctx, msgs)

	notifyClose := c.connection.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		c.Logger.Info("Context cancelled, consumer stops", "consumer_tag", c.config.ConsumerTag)
		return nil
	case amqpErr := <-notifyClose:
		if amqpErr == nil {
			return nil
		}
		c.Logger.Error(amqpErr, "Connection closed by broker", "consumer_tag", c.config.ConsumerTag)
		return amqpErr
	}
}

func (c *Consumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				c.Logger.Info("Deliveries channel closed", "consumer_tag", c.config.ConsumerTag)
				return
			}
			c.wg.Add(1)
			go func(d amqp.Delivery) {
				defer c.wg.Done()
				c.handle(ctx, d)
			}(d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	err := c.handler(ctx, d)
	switch decide(err, d.Redelivered) {
	case actionAck:
		_ = d.Ack(false)
	case actionRequeue:
		c.Logger.Warn("Handler failed, message requeued", "delivery_tag", d.DeliveryTag, "error", err.Error())
		_ = d.Nack(false, true)
	case actionDrop:
		c.Logger.Error(err, "Handler failed, message dropped", "delivery_tag", d.DeliveryTag, "redelivered", d.Redelivered)
		_ = d.Nack(false, false)
	}
}

type ackAction int

const (
	actionAck ackAction = iota
	actionRequeue
	actionDrop
)

// decide: успех - ack; невалидное сообщение - drop; временная ошибка - одна повторная доставка.
func decide(err error, redelivered bool) ackAction {
	switch {
	case err == nil:
		return actionAck
	case errors.Is(err, ErrPermanent):
		return actionDrop
	case redelivered:
		return actionDrop
	default:
		return actionRequeue
	}
}

// Close дожидается обработчиков и закрывает канал.
func (c *Consumer) Close() error {
	c.wg.Wait()

	if c.channel == nil {
		return nil
	}
	err := c.channel.Close()
	c.channel = nil
	if err != nil {
		c.Logger.Error(err, "Error closing channel")
		return err
	}
	c.Logger.Info("Consumer closed")
	return nil
}
