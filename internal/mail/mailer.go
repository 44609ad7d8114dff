package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/velora-health/medstock-backend/pkg/config"
)

// Sender delivers plain-text alert emails.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender builds a Sender backed by the configured SMTP relay. Callers
// should check SMTPConfig.Enabled before constructing one.
func NewSMTPSender(cfg config.SMTPConfig) (Sender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("smtp host not configured")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("smtp from address required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &smtpSender{client: client, from: cfg.DefaultFrom}, nil
}

func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
