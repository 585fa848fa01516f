// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const dialTimeout = 10 * time.Second

// # SMTP

// SMTPSender relays mail through an SMTP server without authentication,
// upgrading to STARTTLS when the relay offers it.
type SMTPSender struct {
	from string
	send func(ctx context.Context, messages ...*gomail.Msg) error
}

// NewSMTPSender creates a sender for the relay at addr (host:port).
func NewSMTPSender(addr, from string) (*SMTPSender, error) {
	host, portText, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid smtp address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid smtp port %q: %w", portText, err)
	}

	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(dialTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("mailer: smtp client: %w", err)
	}

	return &SMTPSender{from: from, send: client.DialAndSendWithContext}, nil
}

// Send implements [Sender].
func (sender *SMTPSender) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := sender.compose(mail)
	if err != nil {
		return err
	}
	if err := sender.send(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", mail.To, err)
	}
	return nil
}

// compose builds the message. go-mail adds the Date and Message-ID headers
// and encodes non-ASCII subjects.
func (sender *SMTPSender) compose(mail Mail) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(sender.from); err != nil {
		return nil, fmt.Errorf("mailer: invalid sender %q: %w", sender.from, err)
	}
	if err := msg.To(mail.To); err != nil {
		return nil, fmt.Errorf("mailer: invalid recipient %q: %w", mail.To, err)
	}
	msg.Subject(mail.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextPlain, mail.Body)
	return msg, nil
}

// # Log

// LogSender writes mail to the logger instead of sending it.
type LogSender struct {
	Logger *slog.Logger
}

// Send implements [Sender].
func (sender LogSender) Send(_ context.Context, mail Mail) error {
	sender.Logger.Info("mail_logged",
		slog.String("to", mail.To),
		slog.String("subject", mail.Subject),
		slog.String("body", mail.Body),
	)
	return nil
}
