package calendar

import (
	"context"
	"fmt"
	"time"
)

// EventReminder is one pending reminder for an event with two independently
// tracked delivery channels. scheduledAt always equals the event start minus
// the reminder offset at the time the row was written.
type EventReminder struct {
	id              uint
	eventID         uint
	reminderType    ReminderType
	scheduledAt     time.Time
	emailEnabled    bool
	emailSent       bool
	emailSentAt     *time.Time
	browserEnabled  bool
	browserSent     bool
	browserSentAt   *time.Time
	browserAttempts int
	createdAt       time.Time
}

// NewEventReminder builds a reminder for event. The browser channel is always
// enabled; email follows the caller.
func NewEventReminder(event *Event, kind ReminderType, emailEnabled bool, now time.Time) (*EventReminder, error) {
	if event == nil || event.ID() == 0 {
		return nil, fmt.Errorf("event is required")
	}
	if !kind.IsValid() {
		kind = ReminderMinutes15
	}
	return &EventReminder{
		eventID:        event.ID(),
		reminderType:   kind,
		scheduledAt:    ComputeScheduledAt(event.StartTime(), kind),
		emailEnabled:   emailEnabled,
		browserEnabled: true,
		createdAt:      now,
	}, nil
}

func ReconstructEventReminder(
	id, eventID uint,
	reminderType ReminderType,
	scheduledAt time.Time,
	emailEnabled, emailSent bool,
	emailSentAt *time.Time,
	browserEnabled, browserSent bool,
	browserSentAt *time.Time,
	browserAttempts int,
	createdAt time.Time,
) *EventReminder {
	return &EventReminder{
		id:              id,
		eventID:         eventID,
		reminderType:    reminderType,
		scheduledAt:     scheduledAt,
		emailEnabled:    emailEnabled,
		emailSent:       emailSent,
		emailSentAt:     emailSentAt,
		browserEnabled:  browserEnabled,
		browserSent:     browserSent,
		browserSentAt:   browserSentAt,
		browserAttempts: browserAttempts,
		createdAt:       createdAt,
	}
}

func (r *EventReminder) ID() uint {
	return r.id
}

func (r *EventReminder) EventID() uint {
	return r.eventID
}

func (r *EventReminder) ReminderType() ReminderType {
	return r.reminderType
}

func (r *EventReminder) ScheduledAt() time.Time {
	return r.scheduledAt
}

func (r *EventReminder) EmailEnabled() bool {
	return r.emailEnabled
}

func (r *EventReminder) EmailSent() bool {
	return r.emailSent
}

func (r *EventReminder) EmailSentAt() *time.Time {
	return r.emailSentAt
}

func (r *EventReminder) BrowserEnabled() bool {
	return r.browserEnabled
}

func (r *EventReminder) BrowserSent() bool {
	return r.browserSent
}

func (r *EventReminder) BrowserSentAt() *time.Time {
	return r.browserSentAt
}

func (r *EventReminder) BrowserAttempts() int {
	return r.browserAttempts
}

func (r *EventReminder) CreatedAt() time.Time {
	return r.createdAt
}

func (r *EventReminder) SetID(id uint) {
	r.id = id
}

func (r *EventReminder) IsDue(now time.Time) bool {
	return !r.scheduledAt.After(now)
}

func (r *EventReminder) EmailPending() bool {
	return r.emailEnabled && !r.emailSent
}

func (r *EventReminder) BrowserPending() bool {
	return r.browserEnabled && !r.browserSent
}

type ReminderRepository interface {
	// ReplaceForEvent deletes every reminder of eventID and, when r is not
	// nil, inserts r, all in one transaction.
	ReplaceForEvent(ctx context.Context, eventID uint, r *EventReminder) error
	DeleteByEventID(ctx context.Context, eventID uint) error
	ListByEventID(ctx context.Context, eventID uint) ([]*EventReminder, error)
	// FindDue returns reminders scheduled at or before now with at least one
	// enabled channel still unsent, oldest first.
	FindDue(ctx context.Context, now time.Time, limit int) ([]*EventReminder, error)
	// ClaimEmail flips emailSent false->true; it reports whether this caller
	// made the flip.
	ClaimEmail(ctx context.Context, id uint, now time.Time) (bool, error)
	// ClaimBrowser flips browserSent false->true; it reports whether this
	// caller made the flip.
	ClaimBrowser(ctx context.Context, id uint, now time.Time) (bool, error)
	// ReleaseBrowser records a failed in-app delivery. While fewer than
	// maxAttempts failures are recorded the claim is undone so a later sweep
	// retries; it reports whether the claim was released.
	ReleaseBrowser(ctx context.Context, id uint, maxAttempts int) (bool, error)
}
