package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

const (
	reviewEventID = 50
	assigneeID    = 5
	creatorID     = 9
)

var (
	scheduledAt = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	eventStart  = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
)

type reminderFixture struct {
	clock     *biztime.FixedClock
	events    *mockEventRepository
	reminders *memReminderRepository
	notifs    *mockNotificationRepository
	prefs     *mockPreferenceRepository
	users     *mockUserRepository
	mailer    *mockMailer
}

func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()
	assignee := uint(assigneeID)

	u5, err := user.ReconstructUser(assigneeID, "sam@example.com", "Sam", user.RoleStaff, true)
	require.NoError(t, err)
	u9, err := user.ReconstructUser(creatorID, "lee@example.com", "Lee", user.RoleSupportManager, true)
	require.NoError(t, err)

	return &reminderFixture{
		clock: biztime.NewFixedClock(scheduledAt),
		events: &mockEventRepository{events: map[uint]*calendar.Event{
			reviewEventID: calendar.ReconstructEvent(reviewEventID, "Quarterly review",
				eventStart, eventStart.Add(time.Hour), "Room 2", &assignee, creatorID, nil),
		}},
		reminders: newMemReminderRepository(),
		notifs:    &mockNotificationRepository{},
		prefs:     &mockPreferenceRepository{prefs: map[uint]*notification.Preference{}},
		users:     &mockUserRepository{users: map[uint]*user.User{assigneeID: u5, creatorID: u9}},
		mailer:    &mockMailer{},
	}
}

func (f *reminderFixture) upsert() *UpsertReminderForEventUseCase {
	return NewUpsertReminderForEventUseCase(f.events, f.reminders, f.clock, logger.NewNopLogger())
}

func (f *reminderFixture) sweep(opts SweepOptions) *RunDueReminderSweepUseCase {
	return NewRunDueReminderSweepUseCase(f.events, f.reminders, f.notifs, f.prefs, f.users,
		f.mailer, f.clock, logger.NewNopLogger(), opts)
}

// schedule stores an HOUR_1 reminder with email on for the review event.
func (f *reminderFixture) schedule(t *testing.T) {
	t.Helper()
	_, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{
		EventID:         reviewEventID,
		ReminderEnabled: true,
		ReminderType:    "HOUR_1",
		EmailEnabled:    true,
	})
	require.NoError(t, err)
}
