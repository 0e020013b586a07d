package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	apperrors "github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

func TestUpsertReminder_SchedulesBeforeStart(t *testing.T) {
	f := newReminderFixture(t)

	resp, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{
		EventID:         reviewEventID,
		ReminderEnabled: true,
		ReminderType:    "HOUR_1",
		EmailEnabled:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Reminder)

	assert.Equal(t, uint(reviewEventID), resp.EventID)
	assert.Equal(t, "HOUR_1", resp.Reminder.ReminderType)
	assert.Equal(t, time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC), resp.Reminder.ScheduledAt)
	assert.True(t, resp.Reminder.BrowserEnabled)
	assert.True(t, resp.Reminder.EmailEnabled)
	assert.False(t, resp.Reminder.BrowserSent)
	assert.False(t, resp.Reminder.EmailSent)

	stored, err := f.reminders.ListByEventID(context.Background(), reviewEventID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestUpsertReminder_AliasAndFallbackTypes(t *testing.T) {
	tests := []struct {
		input string
		want  calendar.ReminderType
	}{
		{"1-day", calendar.ReminderDay1},
		{"30-minutes", calendar.ReminderMinutes30},
		{"", calendar.ReminderMinutes15},
		{"fortnight", calendar.ReminderMinutes15},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := newReminderFixture(t)
			resp, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{
				EventID:         reviewEventID,
				ReminderEnabled: true,
				ReminderType:    tt.input,
			})
			require.NoError(t, err)
			require.NotNil(t, resp.Reminder)
			assert.Equal(t, tt.want.String(), resp.Reminder.ReminderType)
			assert.Equal(t, eventStart.Add(-tt.want.Offset()), resp.Reminder.ScheduledAt)
		})
	}
}

func TestUpsertReminder_ReplacesExistingRow(t *testing.T) {
	f := newReminderFixture(t)
	f.schedule(t)

	_, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{
		EventID:         reviewEventID,
		ReminderEnabled: true,
		ReminderType:    "MINUTES_30",
	})
	require.NoError(t, err)

	stored, err := f.reminders.ListByEventID(context.Background(), reviewEventID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, calendar.ReminderMinutes30, stored[0].ReminderType())
	assert.False(t, stored[0].EmailEnabled())
}

func TestUpsertReminder_ClearsWhenDisabledOrUnassigned(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newReminderFixture(t)
		f.schedule(t)

		resp, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{EventID: reviewEventID})
		require.NoError(t, err)
		assert.Nil(t, resp.Reminder)
		assert.Nil(t, f.reminders.only(reviewEventID))
	})

	t.Run("no assignee", func(t *testing.T) {
		f := newReminderFixture(t)
		f.schedule(t)
		f.events.events[reviewEventID] = calendar.ReconstructEvent(reviewEventID, "Quarterly review",
			eventStart, eventStart.Add(time.Hour), "", nil, creatorID, nil)

		resp, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{
			EventID:         reviewEventID,
			ReminderEnabled: true,
			ReminderType:    "HOUR_1",
		})
		require.NoError(t, err)
		assert.Nil(t, resp.Reminder)
		assert.Nil(t, f.reminders.only(reviewEventID))
	})
}

func TestUpsertReminder_Errors(t *testing.T) {
	t.Run("event not found", func(t *testing.T) {
		f := newReminderFixture(t)
		_, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{EventID: 404, ReminderEnabled: true})
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newReminderFixture(t)
		f.reminders.ReplaceForEventFunc = func(context.Context, uint, *calendar.EventReminder) error {
			return errors.New("disk full")
		}
		_, err := f.upsert().Execute(context.Background(), UpsertReminderCommand{EventID: reviewEventID, ReminderEnabled: true})
		require.NotNil(t, apperrors.GetAppError(err))
		assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
	})
}

func TestCancelReminders(t *testing.T) {
	f := newReminderFixture(t)
	f.schedule(t)

	uc := NewCancelRemindersForEventUseCase(f.reminders, logger.NewNopLogger())
	require.NoError(t, uc.Execute(context.Background(), reviewEventID))
	assert.Nil(t, f.reminders.only(reviewEventID))

	// unknown events are fine
	require.NoError(t, uc.Execute(context.Background(), 404))
}
