package notify

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// MailgunSender delivers email via the Mailgun API.
type MailgunSender struct {
	domain string
	apiKey string
	from   string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{domain: domain, apiKey: apiKey, from: from}
}

func (m *MailgunSender) Send(ctx context.Context, to, subject, body string) error {
	client := mg.NewMailgun(m.domain, m.apiKey)
	msg := client.NewMessage(m.from, subject, body, to)

	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _, err := client.Send(c, msg)

	return err
}
