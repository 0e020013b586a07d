package notification

import "fmt"

// Type tags what a notification is about.
type Type string

const (
	TypeEventReminder  Type = "event_reminder"
	TypeEventAssigned  Type = "event_assigned"
	TypeTaskAssigned   Type = "task_assigned"
	TypeTaskDueSoon    Type = "task_due_soon"
	TypeTaskOverdue    Type = "task_overdue"
	TypeTicketReply    Type = "ticket_reply"
	TypeTicketAssigned Type = "ticket_assigned"
)

var validTypes = map[Type]bool{
	TypeEventReminder:  true,
	TypeEventAssigned:  true,
	TypeTaskAssigned:   true,
	TypeTaskDueSoon:    true,
	TypeTaskOverdue:    true,
	TypeTicketReply:    true,
	TypeTicketAssigned: true,
}

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	return validTypes[t]
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return t, nil
}
