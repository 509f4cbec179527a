// Package rabbitmq carries order events over AMQP for deployments that run
// the worker outside Lambda.
package rabbitmq

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/imrishuroy/trynex-storefront/internal/config"
)

// Handler processes one message body.
type Handler func(ctx context.Context, body []byte) error

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
}

func NewConsumer(cfg config.RabbitMQConfig) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Set prefetch count
	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		config:  cfg,
	}, nil
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// Consume blocks delivering messages from the order queue to handler until
// ctx is done or the channel closes.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := declareQueue(c.channel, c.config.OrderQueue); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		c.config.OrderQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("[rabbitmq] consuming from queue %s", c.config.OrderQueue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			handleDelivery(ctx, msg, handler)
		}
	}
}

// handleDelivery acks on success. A failure is requeued once; a message
// that already failed a redelivery is dropped so it cannot loop forever.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler Handler) {
	if err := handler(ctx, msg.Body); err != nil {
		requeue := !msg.Redelivered
		log.Printf("[rabbitmq] message %s failed (requeue=%t): %v", msg.MessageId, requeue, err)
		if nackErr := msg.Nack(false, requeue); nackErr != nil {
			log.Printf("[rabbitmq] nack %s: %v", msg.MessageId, nackErr)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		log.Printf("[rabbitmq] ack %s: %v", msg.MessageId, err)
	}
}
