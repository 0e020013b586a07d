package notification

import (
	"context"
	"time"
)

// Mailer delivers the templated notification emails. Implementations bound
// each send by their own timeout and return a *errors.DeliveryError on failure.
type Mailer interface {
	SendEventReminder(ctx context.Context, to string, m EventReminderMail) error
	SendEventAssigned(ctx context.Context, to string, m EventAssignedMail) error
	SendTaskAssigned(ctx context.Context, to string, m TaskMail) error
	SendTaskDueSoon(ctx context.Context, to string, m TaskMail) error
	SendTaskOverdue(ctx context.Context, to string, m TaskMail) error
	SendTicketReply(ctx context.Context, to string, m TicketReplyMail) error
	SendNewTicketForAdmins(ctx context.Context, to []string, m NewTicketMail) error
}

type EventReminderMail struct {
	RecipientName string
	EventID       uint
	EventTitle    string
	StartTime     time.Time
	Location      string
	// Lead is the human form of the reminder offset, e.g. "1 hour".
	Lead string
}

type EventAssignedMail struct {
	RecipientName string
	AssignerName  string
	EventID       uint
	EventTitle    string
	StartTime     time.Time
	Location      string
}

type TaskMail struct {
	RecipientName string
	AssignerName  string
	TaskID        uint
	TaskTitle     string
	DueAt         *time.Time
}

type TicketReplyMail struct {
	ContactName  string
	TicketID     uint
	TicketNumber string
	Subject      string
	AuthorName   string
	// Body is the reply as written; it is rendered as markdown.
	Body string
}

type NewTicketMail struct {
	TicketID     uint
	TicketNumber string
	Subject      string
	ClientName   string
	Body         string
}
