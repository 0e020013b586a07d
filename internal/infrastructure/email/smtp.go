package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/corvid-crm/corvid/internal/shared/config"
	apperrors "github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/services/markdown"
)

const defaultSendTimeout = 15 * time.Second

// ErrEmailServiceNotConfigured is returned by every send when no SMTP host is set.
var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// sender is the transport seam; *gomail.Dialer satisfies it.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config    config.EmailConfig
	dialer    sender
	templates *templates
	markdown  markdown.MarkdownService
	timeout   time.Duration
}

func NewSMTPEmailService(cfg config.EmailConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return newSMTPEmailService(cfg, dialer)
}

func newSMTPEmailService(cfg config.EmailConfig, dialer sender) *SMTPEmailService {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &SMTPEmailService{
		config:    cfg,
		dialer:    dialer,
		templates: mustParseTemplates(),
		markdown:  markdown.NewMarkdownService(),
		timeout:   timeout,
	}
}

func (s *SMTPEmailService) link(format string, args ...any) string {
	return s.config.BaseURL + fmt.Sprintf(format, args...)
}

// send renders the named template pair and delivers it.
func (s *SMTPEmailService) send(ctx context.Context, to []string, subject, name string, data any) error {
	htmlBody, plainBody, err := s.templates.render(name, data)
	if err != nil {
		return apperrors.NewDeliveryError(apperrors.ChannelEmail, firstOf(to), err)
	}
	return s.sendEmail(ctx, to, subject, htmlBody, plainBody)
}

// sendEmail delivers one message. It gives up after the configured timeout
// or when ctx ends; an abandoned dial finishes in the background.
func (s *SMTPEmailService) sendEmail(ctx context.Context, to []string, subject, htmlBody, plainBody string) error {
	if len(to) == 0 {
		return apperrors.NewDeliveryError(apperrors.ChannelEmail, "", fmt.Errorf("no recipients"))
	}

	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	if len(to) == 1 {
		m.SetHeader("To", to[0])
	} else {
		// admin fan-out: recipients must not see each other
		m.SetHeader("To", s.config.FromAddress)
		m.SetHeader("Bcc", to...)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return apperrors.NewDeliveryError(apperrors.ChannelEmail, firstOf(to), fmt.Errorf("failed to send email: %w", err))
		}
		return nil
	case <-ctx.Done():
		return apperrors.NewDeliveryError(apperrors.ChannelEmail, firstOf(to), fmt.Errorf("failed to send email: %w", ctx.Err()))
	}
}

func firstOf(to []string) string {
	if len(to) == 0 {
		return ""
	}
	if len(to) > 1 {
		return fmt.Sprintf("%s (+%d)", to[0], len(to)-1)
	}
	return to[0]
}
