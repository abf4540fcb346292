package senders

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// mailgunSender delivers over email. Email has no editable message ids, so
// Send reports id 0 and Edit delivers a follow-up message; editing the same
// id twice just sends again, which keeps the sink contract.
type mailgunSender struct {
	base
}

func (e *mailgunSender) Send(ctx context.Context, recipient string, text string) (int64, error) {
	if err := e.send(ctx, recipient, text); err != nil {
		return 0, err
	}
	return 0, nil
}

func (e *mailgunSender) Edit(ctx context.Context, recipient string, messageID int64, text string) error {
	return e.send(ctx, recipient, text)
}

func (e *mailgunSender) send(ctx context.Context, recipient string, text string) error {
	mg := mailgun.NewMailgun(e.cfg.Mailgun.Domain, e.cfg.Mailgun.APIKey)
	mg.Client().Transport = e.transport

	// Create message with empty body first.
	message := mg.NewMessage(e.cfg.Mailgun.SenderFrom, "Matchwatch: live match update", "", recipient)
	// SetHtml with the payload proper. This will assign the MIME type properly.
	message.SetHtml(text)

	timeout := time.Duration(e.cfg.Mailgun.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, _, err := mg.Send(ctx, message); err != nil {
		return fmt.Errorf("%w: mailgun send to %s: %v", ErrTransport, recipient, err)
	}
	return nil
}
