// Package mail is the SMTP transport behind port.MailTransport.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

type SMTPMailer struct {
	log    *slog.Logger
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds the transport from explicit configuration. Missing
// credentials yield an unconfigured mailer; callers are expected to treat
// that as "simulate delivery", not as an error.
func NewSMTPMailer(log *slog.Logger, host string, port int, username, password, from string) (*SMTPMailer, error) {
	m := &SMTPMailer{log: log, from: from}
	if username == "" || password == "" {
		return m, nil
	}

	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	m.client = client
	return m, nil
}

func (m *SMTPMailer) Configured() bool {
	return m.client != nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.log.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func (m *SMTPMailer) Verify(ctx context.Context) error {
	if err := m.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	return m.client.Close()
}
