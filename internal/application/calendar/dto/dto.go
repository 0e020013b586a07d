package dto

import (
	"time"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
)

type ReminderDTO struct {
	ID             uint      `json:"id"`
	EventID        uint      `json:"event_id"`
	ReminderType   string    `json:"reminder_type"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	EmailEnabled   bool      `json:"email_enabled"`
	EmailSent      bool      `json:"email_sent"`
	BrowserEnabled bool      `json:"browser_enabled"`
	BrowserSent    bool      `json:"browser_sent"`
}

// EventReminderResponse reports the reminder an event ended up with; Reminder
// is nil when the event has none.
type EventReminderResponse struct {
	EventID  uint         `json:"event_id"`
	Reminder *ReminderDTO `json:"reminder"`
}

type UpsertReminderRequest struct {
	ReminderEnabled bool   `json:"reminder_enabled"`
	ReminderType    string `json:"reminder_type"`
	EmailEnabled    bool   `json:"email_enabled"`
}

type SweepResponse struct {
	Processed int `json:"processed"`
}

func ToReminderDTO(r *calendar.EventReminder) *ReminderDTO {
	if r == nil {
		return nil
	}
	return &ReminderDTO{
		ID:             r.ID(),
		EventID:        r.EventID(),
		ReminderType:   r.ReminderType().String(),
		ScheduledAt:    r.ScheduledAt(),
		EmailEnabled:   r.EmailEnabled(),
		EmailSent:      r.EmailSent(),
		BrowserEnabled: r.BrowserEnabled(),
		BrowserSent:    r.BrowserSent(),
	}
}
