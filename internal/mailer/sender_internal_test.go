// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

// capture replaces the network send and records the message it was given.
func capture(t *testing.T, sender *SMTPSender) *[]*gomail.Msg {
	t.Helper()
	var sent []*gomail.Msg
	sender.send = func(_ context.Context, messages ...*gomail.Msg) error {
		sent = append(sent, messages...)
		return nil
	}
	return &sent
}

/*
TestSMTPSender_Compose writes the standard headers and encodes the subject.
*/
func TestSMTPSender_Compose(t *testing.T) {
	sender, err := NewSMTPSender("smtp.local:25", "noreply@yamdb.app")
	require.NoError(t, err)
	sent := capture(t, sender)

	err = sender.Send(context.Background(), Mail{To: "alice@example.com", Subject: "Bestätigung", Body: "line1\nline2"})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	var raw bytes.Buffer
	_, err = (*sent)[0].WriteTo(&raw)
	require.NoError(t, err)
	out := raw.String()

	assert.Contains(t, out, "From: <noreply@yamdb.app>")
	assert.Contains(t, out, "To: <alice@example.com>")
	assert.Contains(t, out, "Date: ")
	assert.Contains(t, out, "Message-ID: <")
	assert.Contains(t, out, "Subject: =?UTF-8?q?")
	assert.NotContains(t, out, "Subject: Bestätigung")
	assert.Contains(t, out, "line1")
	assert.Contains(t, out, "line2")
}

/*
TestSMTPSender_RejectsBadAddresses sends nothing for an unparsable recipient.
*/
func TestSMTPSender_RejectsBadAddresses(t *testing.T) {
	sender, err := NewSMTPSender("smtp.local:25", "noreply@yamdb.app")
	require.NoError(t, err)
	sent := capture(t, sender)

	assert.Error(t, sender.Send(context.Background(), Mail{To: "Alice <alice@", Subject: "x"}))
	assert.Empty(t, *sent)

	_, err = NewSMTPSender("smtp.local", "noreply@yamdb.app")
	assert.Error(t, err)
}

/*
TestSMTPSender_CancelledContext sends nothing once the context is done.
*/
func TestSMTPSender_CancelledContext(t *testing.T) {
	sender, err := NewSMTPSender("smtp.local:25", "noreply@yamdb.app")
	require.NoError(t, err)
	sent := capture(t, sender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sender.Send(ctx, Mail{To: "a@b.c"}), context.Canceled)
	assert.Empty(t, *sent)
}
