// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer turns queued confirmation codes into outgoing mail.

cmd/mailer feeds [Mailer.Handle] from the broker consumer. Malformed messages
return an error so the consumer drops them; expired codes are skipped.
*/
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/users/auth"
)

// Mail is a rendered plain-text message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a rendered [Mail].
type Sender interface {
	Send(ctx context.Context, mail Mail) error
}

// Mailer renders and sends confirmation codes.
type Mailer struct {
	sender Sender
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Mailer sending through sender.
func New(sender Sender, logger *slog.Logger) *Mailer {
	return &Mailer{sender: sender, logger: logger, now: time.Now}
}

// Handle decodes one broker message and sends it. It matches broker.HandlerFunc.
func (mailer *Mailer) Handle(ctx context.Context, body []byte) error {
	var message auth.ConfirmationCodeMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("mailer: malformed message: %w", err)
	}
	if message.Email == "" || message.Code == "" {
		return fmt.Errorf("mailer: message for %q lacks email or code", message.Username)
	}

	if !message.ExpiresAt.IsZero() && mailer.now().After(message.ExpiresAt) {
		mailer.logger.Info("mailer_code_expired_skipped",
			slog.String("username", message.Username),
			slog.Time("expires_at", message.ExpiresAt),
		)
		return nil
	}

	if err := mailer.sender.Send(ctx, Render(message)); err != nil {
		return fmt.Errorf("mailer: send to %s failed: %w", message.Email, err)
	}

	mailer.logger.Info("mailer_code_sent", slog.String("username", message.Username))
	return nil
}

// Render builds the confirmation mail for message.
func Render(message auth.ConfirmationCodeMessage) Mail {
	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", message.Username)
	fmt.Fprintf(&body, "Your yamdb confirmation code is: %s\n", message.Code)
	if !message.ExpiresAt.IsZero() {
		fmt.Fprintf(&body, "It expires at %s.\n", message.ExpiresAt.UTC().Format(time.RFC1123))
	}
	body.WriteString("\nExchange it for an access token at /api/v1/auth/token.\n")

	return Mail{
		To:      message.Email,
		Subject: "yamdb confirmation code",
		Body:    body.String(),
	}
}
