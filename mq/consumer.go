package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer reads command messages off the service queue and replies on the
// reply-to queue when the publisher asks for one.
type Consumer struct {
	config     *models.Config
	logger     logger.Logger
	dispatcher *Dispatcher

	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewConsumer(cfg *models.Config, log logger.Logger, dispatcher *Dispatcher) *Consumer {
	return &Consumer{
		config:     cfg,
		logger:     log,
		dispatcher: dispatcher,
	}
}

// Start connects to the broker and consumes until ctx is cancelled. With no
// amqp_url configured the transport is disabled and Start is a no-op.
func (c *Consumer) Start(ctx context.Context) error {
	if c.config.AMQPURL == "" {
		c.logger.Info("AMQP transport disabled (no amqp_url configured)")
		return nil
	}

	conn, err := amqp.Dial(c.config.AMQPURL)
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	c.conn = conn

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	c.channel = channel

	queue, err := channel.QueueDeclare(
		c.config.AMQPCommandQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		c.Close()
		return fmt.Errorf("failed to declare queue %s: %w", c.config.AMQPCommandQueue, err)
	}

	// One unacked message at a time keeps command ordering per consumer.
	if err := channel.Qos(1, 0, false); err != nil {
		c.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		c.Close()
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Infof("AMQP consumer started on queue %s", queue.Name)

	go c.loop(ctx, deliveries)
	return nil
}

func (c *Consumer) loop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("AMQP consumer stopping")
			c.Close()
			return
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.Warn("AMQP delivery channel closed")
				return
			}
			c.handle(ctx, delivery)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	response := c.dispatcher.Dispatch(ctx, delivery.Body)

	if delivery.ReplyTo != "" {
		if err := c.reply(ctx, delivery, response); err != nil {
			c.logger.Errorf("failed to publish reply: %v", err)
		}
	}

	if err := delivery.Ack(false); err != nil {
		c.logger.Errorf("failed to ack delivery: %v", err)
	}
}

func (c *Consumer) reply(ctx context.Context, delivery amqp.Delivery, response models.APIResponse) error {
	body, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return c.channel.PublishWithContext(ctx,
		"", // default exchange
		delivery.ReplyTo,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: delivery.CorrelationId,
			Body:          body,
		})
}

// Close tears down the channel and connection.
func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
