package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/application/calendar/dto"
	"github.com/corvid-crm/corvid/internal/application/calendar/usecases"
	"github.com/corvid-crm/corvid/internal/interfaces/http/handlers/testutil"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type mockUpsert struct {
	fn  func(ctx context.Context, cmd usecases.UpsertReminderCommand) (*dto.EventReminderResponse, error)
	got usecases.UpsertReminderCommand
}

func (m *mockUpsert) Execute(ctx context.Context, cmd usecases.UpsertReminderCommand) (*dto.EventReminderResponse, error) {
	m.got = cmd
	return m.fn(ctx, cmd)
}

type mockCancel struct {
	err error
	got uint
}

func (m *mockCancel) Execute(_ context.Context, eventID uint) error {
	m.got = eventID
	return m.err
}

type mockSweep struct {
	processed int
	err       error
	calls     int
}

func (m *mockSweep) Execute(context.Context) (int, error) {
	m.calls++
	return m.processed, m.err
}

func TestUpsertReminder(t *testing.T) {
	scheduled := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	upsert := &mockUpsert{fn: func(_ context.Context, cmd usecases.UpsertReminderCommand) (*dto.EventReminderResponse, error) {
		return &dto.EventReminderResponse{
			EventID: cmd.EventID,
			Reminder: &dto.ReminderDTO{
				ID: 1, EventID: cmd.EventID, ReminderType: "HOUR_1", ScheduledAt: scheduled,
				EmailEnabled: cmd.EmailEnabled, BrowserEnabled: true,
			},
		}, nil
	}}
	h := NewReminderHandler(upsert, &mockCancel{}, &mockSweep{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/api/events/50/reminder", map[string]any{
		"reminder_enabled": true,
		"reminder_type":    "1h",
		"email_enabled":    true,
	})
	testutil.SetURLParam(c, "id", "50")

	h.UpsertReminder(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.UpsertReminderCommand{EventID: 50, ReminderEnabled: true, ReminderType: "1h", EmailEnabled: true}, upsert.got)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body dto.EventReminderResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	require.NotNil(t, body.Reminder)
	assert.True(t, body.Reminder.ScheduledAt.Equal(scheduled))
}

func TestUpsertReminder_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       any
		ucErr      error
		wantStatus int
	}{
		{"bad id", "x", map[string]any{}, nil, http.StatusBadRequest},
		{"malformed body", "50", "{", nil, http.StatusBadRequest},
		{"unknown event", "50", map[string]any{"reminder_enabled": true}, errors.NewNotFoundError("event not found"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upsert := &mockUpsert{fn: func(context.Context, usecases.UpsertReminderCommand) (*dto.EventReminderResponse, error) {
				return nil, tt.ucErr
			}}
			h := NewReminderHandler(upsert, &mockCancel{}, &mockSweep{}, logger.NewNopLogger())

			c, w := testutil.NewTestContext(http.MethodPut, "/api/events/"+tt.id+"/reminder", tt.body)
			testutil.SetURLParam(c, "id", tt.id)

			h.UpsertReminder(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCancelReminders(t *testing.T) {
	cancel := &mockCancel{}
	h := NewReminderHandler(nil, cancel, &mockSweep{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/events/50/reminder", nil)
	testutil.SetURLParam(c, "id", "50")

	h.CancelReminders(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint(50), cancel.got)
}

func TestRunSweep(t *testing.T) {
	sweep := &mockSweep{processed: 3}
	h := NewReminderHandler(nil, nil, sweep, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/sweeps/reminders", nil)
	h.RunSweep(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, sweep.calls)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body dto.SweepResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, 3, body.Processed)
}

func TestRunSweep_Failure(t *testing.T) {
	h := NewReminderHandler(nil, nil, &mockSweep{err: assert.AnError}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/admin/sweeps/reminders", nil)
	h.RunSweep(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
