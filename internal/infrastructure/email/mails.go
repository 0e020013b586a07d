package email

import (
	"context"
	"fmt"
	htmltemplate "html/template"

	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/shared/config"
)

var _ notification.Mailer = (*SMTPEmailService)(nil)

func (s *SMTPEmailService) SendEventReminder(ctx context.Context, to string, m notification.EventReminderMail) error {
	data := struct {
		notification.EventReminderMail
		Link string
	}{m, s.link("/calendar/events/%d", m.EventID)}

	subject := fmt.Sprintf("Reminder: %s in %s", m.EventTitle, m.Lead)
	return s.send(ctx, []string{to}, subject, tplEventReminder, data)
}

func (s *SMTPEmailService) SendEventAssigned(ctx context.Context, to string, m notification.EventAssignedMail) error {
	data := struct {
		notification.EventAssignedMail
		Link string
	}{m, s.link("/calendar/events/%d", m.EventID)}

	return s.send(ctx, []string{to}, "New event: "+m.EventTitle, tplEventAssigned, data)
}

func (s *SMTPEmailService) SendTaskAssigned(ctx context.Context, to string, m notification.TaskMail) error {
	return s.sendTask(ctx, to, "New task: "+m.TaskTitle, tplTaskAssigned, m)
}

func (s *SMTPEmailService) SendTaskDueSoon(ctx context.Context, to string, m notification.TaskMail) error {
	return s.sendTask(ctx, to, "Due soon: "+m.TaskTitle, tplTaskDueSoon, m)
}

func (s *SMTPEmailService) SendTaskOverdue(ctx context.Context, to string, m notification.TaskMail) error {
	return s.sendTask(ctx, to, "Overdue: "+m.TaskTitle, tplTaskOverdue, m)
}

func (s *SMTPEmailService) sendTask(ctx context.Context, to, subject, tpl string, m notification.TaskMail) error {
	data := struct {
		notification.TaskMail
		Link string
	}{m, s.link("/tasks/%d", m.TaskID)}

	return s.send(ctx, []string{to}, subject, tpl, data)
}

func (s *SMTPEmailService) SendTicketReply(ctx context.Context, to string, m notification.TicketReplyMail) error {
	data := struct {
		notification.TicketReplyMail
		BodyHTML htmltemplate.HTML
		Link     string
	}{m, s.renderBody(m.Body), s.link("/portal/tickets/%d", m.TicketID)}

	subject := fmt.Sprintf("[%s] New reply: %s", m.TicketNumber, m.Subject)
	return s.send(ctx, []string{to}, subject, tplTicketReply, data)
}

func (s *SMTPEmailService) SendNewTicketForAdmins(ctx context.Context, to []string, m notification.NewTicketMail) error {
	data := struct {
		notification.NewTicketMail
		BodyHTML htmltemplate.HTML
		Link     string
	}{m, s.renderBody(m.Body), s.link("/support/tickets/%d", m.TicketID)}

	subject := fmt.Sprintf("[%s] New ticket from %s", m.TicketNumber, m.ClientName)
	return s.send(ctx, to, subject, tplNewTicket, data)
}

// renderBody turns a markdown message into sanitized HTML. When conversion
// fails the escaped source is used.
func (s *SMTPEmailService) renderBody(body string) htmltemplate.HTML {
	out, err := s.markdown.ToHTMLSanitized(body)
	if err != nil {
		return htmltemplate.HTML(htmltemplate.HTMLEscapeString(body))
	}
	return htmltemplate.HTML(out)
}

// DisabledEmailService stands in when SMTP is not configured.
type DisabledEmailService struct{}

var _ notification.Mailer = DisabledEmailService{}

func (DisabledEmailService) SendEventReminder(context.Context, string, notification.EventReminderMail) error {
	return ErrEmailServiceNotConfigured
}

func (DisabledEmailService) SendEventAssigned(context.Context, string, notification.EventAssignedMail) error {
	return ErrEmailServiceNotConfigured
}

func (DisabledEmailService) SendTaskAssigned(context.Context, string, notification.TaskMail) error {
	return ErrEmailServiceNotConfigured
}

func (DisabledEmailService) SendTaskDueSoon(context.Context, string, notification.TaskMail) error {
	return ErrEmailServiceNotConfigured
}

func (DisabledEmailService) SendTaskOverdue(context.Context, string, notification.TaskMail) error {
	return ErrEmailServiceNotConfigured
}

func (DisabledEmailService) SendTicketReply(context.Context, string, notification.TicketReplyMail) error {
	return ErrEmailServiceNotConfigured
}

func (DisabledEmailService) SendNewTicketForAdmins(context.Context, []string, notification.NewTicketMail) error {
	return ErrEmailServiceNotConfigured
}

// NewMailer returns the SMTP service, or DisabledEmailService when the
// configuration has no SMTP host.
func NewMailer(cfg config.EmailConfig) notification.Mailer {
	if !cfg.IsConfigured() {
		return DisabledEmailService{}
	}
	return NewSMTPEmailService(cfg)
}
