// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
)

// ConfirmationCodeMessage is the payload handed to a [Notifier] and, through
// the broker, to cmd/mailer.
type ConfirmationCodeMessage struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier delivers a confirmation code out of band.
//
// Delivery is best effort: the service logs a failure and moves on, and the
// user recovers with a resend.
type Notifier interface {
	DeliverCode(ctx context.Context, message ConfirmationCodeMessage) error
}

// # Broker Notifier

// Publisher is the subset of broker.Publisher the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// BrokerNotifier publishes codes to a durable queue for the mailer.
type BrokerNotifier struct {
	publisher Publisher
	queue     string
}

// NewBrokerNotifier creates a notifier publishing to queue.
func NewBrokerNotifier(publisher Publisher, queue string) *BrokerNotifier {
	return &BrokerNotifier{publisher: publisher, queue: queue}
}

// DeliverCode implements [Notifier].
func (notifier *BrokerNotifier) DeliverCode(ctx context.Context, message ConfirmationCodeMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("auth_notifier_marshal_failed: %w", err)
	}
	return notifier.publisher.Publish(ctx, notifier.queue, body)
}

// # Log Notifier

// LogNotifier writes the code to the request logger. Development only.
type LogNotifier struct{}

// DeliverCode implements [Notifier].
func (LogNotifier) DeliverCode(ctx context.Context, message ConfirmationCodeMessage) error {
	ctxutil.GetLogger(ctx).InfoContext(ctx, "confirmation_code_issued",
		slog.String("username", message.Username),
		slog.String("email", message.Email),
		slog.String("code", message.Code),
		slog.Time("expires_at", message.ExpiresAt),
	)
	return nil
}
