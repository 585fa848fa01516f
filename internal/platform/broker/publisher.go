// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package broker wraps RabbitMQ (amqp091-go) for the confirmation-code pipeline.

The API server publishes through [Publisher]; cmd/mailer drains the queue
through [Consumer]. Queues are durable and messages persistent, so pending
codes survive a broker restart.
*/
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher keeps one lazily dialled connection and channel.
//
// A failed publish drops the connection so the next call dials again.
// Publisher is safe for concurrent use.
type Publisher struct {
	url    string
	logger *slog.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	declared map[string]bool
}

// NewPublisher creates a publisher for the broker at url. No connection is
// made until the first [Publisher.Publish].
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger, declared: make(map[string]bool)}
}

// Publish sends body to queue through the default exchange.
func (publisher *Publisher) Publish(ctx context.Context, queue string, body []byte) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	channel, err := publisher.ensureChannel(queue)
	if err != nil {
		return err
	}

	message := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := channel.PublishWithContext(ctx, "", queue, false, false, message); err != nil {
		publisher.resetLocked()
		return fmt.Errorf("broker: publish to %s failed: %w", queue, err)
	}

	return nil
}

// Close releases the connection, if any.
func (publisher *Publisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.conn == nil {
		return nil
	}
	err := publisher.conn.Close()
	publisher.conn, publisher.channel = nil, nil
	return err
}

// ensureChannel dials and declares queue when needed. Caller holds mu.
func (publisher *Publisher) ensureChannel(queue string) (*amqp.Channel, error) {
	if publisher.conn == nil || publisher.conn.IsClosed() {
		conn, err := amqp.Dial(publisher.url)
		if err != nil {
			return nil, fmt.Errorf("broker: dial failed: %w", err)
		}
		channel, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("broker: channel open failed: %w", err)
		}
		publisher.conn, publisher.channel = conn, channel
		publisher.declared = make(map[string]bool)
		publisher.logger.Info("broker_publisher_connected")
	}

	if !publisher.declared[queue] {
		if err := declareQueue(publisher.channel, queue); err != nil {
			publisher.resetLocked()
			return nil, err
		}
		publisher.declared[queue] = true
	}

	return publisher.channel, nil
}

// resetLocked drops the current connection. Caller holds mu.
func (publisher *Publisher) resetLocked() {
	if publisher.conn != nil {
		_ = publisher.conn.Close()
	}
	publisher.conn, publisher.channel = nil, nil
}

// declareQueue declares a durable, non-exclusive queue. It is idempotent.
func declareQueue(channel *amqp.Channel, queue string) error {
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("broker: declare %s failed: %w", queue, err)
	}
	return nil
}
