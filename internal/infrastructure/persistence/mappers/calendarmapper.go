package mappers

import (
	"time"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
)

func EventToDomain(model *models.CalendarEventModel) *calendar.Event {
	return calendar.ReconstructEvent(
		model.ID,
		model.Title,
		model.StartTime.UTC(),
		model.EndTime.UTC(),
		model.Location,
		model.AssignedTo,
		model.CreatedBy,
		[]uint(model.ParticipantIDs),
	)
}

func ReminderToModel(r *calendar.EventReminder) *models.EventReminderModel {
	return &models.EventReminderModel{
		ID:              r.ID(),
		EventID:         r.EventID(),
		ReminderType:    r.ReminderType().String(),
		ScheduledAt:     r.ScheduledAt().UTC(),
		EmailEnabled:    r.EmailEnabled(),
		EmailSent:       r.EmailSent(),
		EmailSentAt:     r.EmailSentAt(),
		BrowserEnabled:  r.BrowserEnabled(),
		BrowserSent:     r.BrowserSent(),
		BrowserSentAt:   r.BrowserSentAt(),
		BrowserAttempts: r.BrowserAttempts(),
		CreatedAt:       r.CreatedAt().UTC(),
	}
}

func ReminderToDomain(model *models.EventReminderModel) *calendar.EventReminder {
	return calendar.ReconstructEventReminder(
		model.ID,
		model.EventID,
		calendar.ReminderType(model.ReminderType),
		model.ScheduledAt.UTC(),
		model.EmailEnabled,
		model.EmailSent,
		utcPtr(model.EmailSentAt),
		model.BrowserEnabled,
		model.BrowserSent,
		utcPtr(model.BrowserSentAt),
		model.BrowserAttempts,
		model.CreatedAt.UTC(),
	)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
