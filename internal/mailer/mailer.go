// Package mailer delivers alert mail over SMTP.
package mailer

import (
	"context"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"
)

// Message is one outbound mail.
type Message struct {
	FromName string
	FromAddr string
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer sends a message in a single SMTP round trip.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer talks to a real SMTP relay with STARTTLS and authentication.
// Each Send dials, authenticates, delivers and closes.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	timeout  time.Duration
}

// NewSMTP constructs an SMTPMailer.
func NewSMTP(host string, port int, user, password string, timeout time.Duration) *SMTPMailer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPMailer{host: host, port: port, user: user, password: password, timeout: timeout}
}

// Send delivers the message. Transport failures surface to the caller
// unretried.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := mail.NewMsg()
	if err := out.FromFormat(msg.FromName, msg.FromAddr); err != nil {
		return fmt.Errorf("mailer: from address: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("mailer: recipients: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
		mail.WithTimeout(m.timeout),
	)
	if err != nil {
		return fmt.Errorf("mailer: smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}
