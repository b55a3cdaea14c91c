package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

type Service interface {
	SendProviderStatus(ctx context.Context, provider model.ServiceProvider, status model.ProviderStatus) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Sender abstracts the SMTP dialer so tests can capture messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPService struct {
	sender Sender
	from   string
}

func NewSMTPService(cfg Config) *SMTPService {
	return &SMTPService{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func NewSMTPServiceWithSender(sender Sender, from string) *SMTPService {
	return &SMTPService{sender: sender, from: from}
}

func (s *SMTPService) SendProviderStatus(ctx context.Context, provider model.ServiceProvider, status model.ProviderStatus) error {
	if provider.Email == "" {
		return fmt.Errorf("provider %s has no e-mail address", provider.ID)
	}
	subject, body := providerStatusMessage(provider, status)
	return s.SendCustom(ctx, provider.Email, subject, body)
}

func (s *SMTPService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send e-mail to %s: %w", to, err)
	}
	return nil
}

func providerStatusMessage(p model.ServiceProvider, status model.ProviderStatus) (string, string) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "there"
	}
	switch status {
	case model.ProviderStatusApproved:
		return "Your provider application was approved",
			fmt.Sprintf("Hi %s,\n\nYour application has been approved. You can now receive appointments.\n", name)
	case model.ProviderStatusRejected:
		return "Your provider application was rejected",
			fmt.Sprintf("Hi %s,\n\nUnfortunately your application was not approved. Please contact support for details.\n", name)
	default:
		return "Your provider application is under review",
			fmt.Sprintf("Hi %s,\n\nYour application is pending review again.\n", name)
	}
}

// LogService only logs messages; it is used when SMTP is not configured.
type LogService struct {
	logger *zerolog.Logger
}

func NewLogService(logger *zerolog.Logger) *LogService {
	return &LogService{logger: logger}
}

func (l *LogService) SendProviderStatus(ctx context.Context, provider model.ServiceProvider, status model.ProviderStatus) error {
	subject, _ := providerStatusMessage(provider, status)
	return l.SendCustom(ctx, provider.Email, subject, "")
}

func (l *LogService) SendCustom(_ context.Context, to string, subject string, _ string) error {
	l.logger.Debug().Str("to", to).Str("subject", subject).Msg("e-mail not sent, smtp disabled")
	return nil
}
