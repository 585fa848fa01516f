// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	initialBackoff  = time.Second
	maxBackoff      = 30 * time.Second
	defaultPrefetch = 20
)

// HandlerFunc processes one message body. A non-nil error rejects the message
// without requeueing it.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer drains a single durable queue, reconnecting with exponential
// backoff whenever the broker goes away.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	logger   *slog.Logger
}

// NewConsumer creates a consumer for queue.
func NewConsumer(url, queue string, logger *slog.Logger) *Consumer {
	return &Consumer{url: url, queue: queue, prefetch: defaultPrefetch, logger: logger}
}

// Run consumes until ctx is cancelled. It only returns ctx.Err().
func (consumer *Consumer) Run(ctx context.Context, handler HandlerFunc) error {
	backoff := initialBackoff

	for {
		conn, err := amqp.Dial(consumer.url)
		if err != nil {
			consumer.logger.Warn("broker_dial_failed",
				slog.Any("error", err),
				slog.Duration("retry_in", backoff),
			)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = initialBackoff

		err = consumer.consume(ctx, conn, handler)
		_ = conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		consumer.logger.Warn("broker_consume_loop_ended", slog.Any("error", err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (consumer *Consumer) consume(ctx context.Context, conn *amqp.Connection, handler HandlerFunc) error {
	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("broker: channel open failed: %w", err)
	}
	defer func() { _ = channel.Close() }()

	if err := channel.Qos(consumer.prefetch, 0, false); err != nil {
		consumer.logger.Warn("broker_qos_failed", slog.Any("error", err))
	}

	if err := declareQueue(channel, consumer.queue); err != nil {
		return err
	}

	deliveries, err := channel.Consume(consumer.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("broker: consume %s failed: %w", consumer.queue, err)
	}

	consumer.logger.Info("broker_consumer_started", slog.String("queue", consumer.queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("broker: deliveries channel closed")
			}
			consumer.dispatch(ctx, delivery, handler)
		}
	}
}

// dispatch runs handler and settles the delivery.
func (consumer *Consumer) dispatch(ctx context.Context, delivery amqp.Delivery, handler HandlerFunc) {
	if err := handler(ctx, delivery.Body); err != nil {
		consumer.logger.Error("broker_message_rejected",
			slog.String("queue", consumer.queue),
			slog.Any("error", err),
		)
		_ = delivery.Nack(false, false)
		return
	}
	_ = delivery.Ack(false)
}

// nextBackoff doubles current up to maxBackoff.
func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
