// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mailer drains the confirmation-code queue and sends each code by
// mail.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Choose the SMTP sender, or the log sender when SMTP_ADDR is empty.
//  4. Consume AMQP_URL / CONFIRMATION_QUEUE until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/yamdb/internal/mailer"
	"github.com/taibuivan/yamdb/internal/platform/broker"
	"github.com/taibuivan/yamdb/internal/platform/config"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", "yamdb-mailer"))
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")
	if cfg.AMQPURL == "" {
		must(log, errors.New("AMQP_URL is not set"), "load configuration")
	}

	// ── 3. Sender ─────────────────────────────────────────────────────────
	var sender mailer.Sender = mailer.LogSender{Logger: log}
	if cfg.SMTPAddr != "" {
		smtpSender, err := mailer.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
		must(log, err, "create smtp sender")
		sender = smtpSender
		log.Info("smtp_sender_enabled", slog.String("addr", cfg.SMTPAddr))
	} else {
		log.Warn("smtp_not_configured_logging_mail")
	}

	// ── 4. Consume ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := broker.NewConsumer(cfg.AMQPURL, cfg.ConfirmationQueue, log)
	err = consumer.Run(ctx, mailer.New(sender, log).Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer_stopped", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("mailer stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
