package mail

import (
	"testing"

	"github.com/velora-health/medstock-backend/pkg/config"
)

func TestNewSMTPSenderRequiresHost(t *testing.T) {
	if _, err := NewSMTPSender(config.SMTPConfig{DefaultFrom: "alerts@velora.example"}); err == nil {
		t.Fatal("expected error without host")
	}
}

func TestNewSMTPSenderRequiresFrom(t *testing.T) {
	if _, err := NewSMTPSender(config.SMTPConfig{Host: "smtp.internal", Port: 587}); err == nil {
		t.Fatal("expected error without from address")
	}
}

func TestNewSMTPSenderBuildsClient(t *testing.T) {
	sender, err := NewSMTPSender(config.SMTPConfig{
		Host:        "smtp.internal",
		Port:        587,
		Username:    "mailer",
		Password:    "secret",
		DefaultFrom: "alerts@velora.example",
	})
	if err != nil {
		t.Fatalf("NewSMTPSender: %v", err)
	}
	impl, ok := sender.(*smtpSender)
	if !ok {
		t.Fatalf("expected smtpSender, got %T", sender)
	}
	if impl.from != "alerts@velora.example" {
		t.Fatalf("unexpected from address %q", impl.from)
	}
}
