package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type assignmentFixture struct {
	notifRepo *mockNotificationRepository
	prefRepo  *mockPreferenceRepository
	mailer    *mockMailer
	uc        *NotifyAssignmentUseCase
}

func newAssignmentFixture() *assignmentFixture {
	f := &assignmentFixture{
		notifRepo: &mockNotificationRepository{},
		prefRepo:  &mockPreferenceRepository{},
		mailer:    &mockMailer{},
	}
	users := staffUsers(
		mustUser(1, "boss@corvid.test", "Boss", true),
		mustUser(2, "ann@corvid.test", "Ann", true),
		mustUser(3, "bob@corvid.test", "Bob", true),
		mustUser(4, "cid@corvid.test", "Cid", true),
	)
	events := &mockEventRepository{
		GetByIDFunc: func(_ context.Context, id uint) (*calendar.Event, error) {
			if id != 40 {
				return nil, nil
			}
			start := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
			return calendar.ReconstructEvent(40, "Quarterly review", start, start.Add(time.Hour), "Room 2", nil, 1, nil), nil
		},
	}
	due := time.Date(2025, 3, 7, 17, 0, 0, 0, time.UTC)
	tasks := &mockTaskRepository{
		GetByIDFunc: func(_ context.Context, id uint) (*task.Task, error) {
			if id != 70 {
				return nil, nil
			}
			return task.ReconstructTask(70, "File VAT return", &due, []uint{2}, 1, false, nil, nil), nil
		},
	}
	lg := logger.NewNopLogger()
	d := NewDeliverer(f.notifRepo, f.prefRepo, users, biztime.NewFixedClock(now), lg)
	f.uc = NewNotifyAssignmentUseCase(events, tasks, users, d, f.mailer, lg)
	return f
}

func TestNotifyAssignment_FansOutToEachRecipient(t *testing.T) {
	f := newAssignmentFixture()

	resp, err := f.uc.Execute(context.Background(), NotifyAssignmentCommand{
		Kind:         AssignmentKindEvent,
		EntityID:     40,
		RecipientIDs: []uint{2, 3, 2, 1},
		AssignerID:   1,
	})
	require.NoError(t, err)

	require.Len(t, resp.Recipients, 2, "duplicates and the assigner are skipped")
	assert.Equal(t, uint(2), resp.Recipients[0].UserID)
	assert.Equal(t, uint(3), resp.Recipients[1].UserID)
	require.Len(t, f.notifRepo.created, 2)
	for _, n := range f.notifRepo.created {
		assert.Equal(t, notification.TypeEventAssigned, n.Type())
		require.NotNil(t, n.RelatedEventID())
		assert.Equal(t, uint(40), *n.RelatedEventID())
		assert.Equal(t, "/calendar/events/40", n.Link())
	}
	assert.Equal(t, []string{"ann@corvid.test", "bob@corvid.test"}, f.mailer.sent["event_assigned"])
}

func TestNotifyAssignment_RecipientFailureIsIsolated(t *testing.T) {
	f := newAssignmentFixture()
	f.mailer.Fail = map[string]error{"bob@corvid.test": errors.NewDeliveryError(errors.ChannelEmail, "bob@corvid.test", fmt.Errorf("550 mailbox full"))}
	f.prefRepo.GetFunc = func(_ context.Context, userID uint) (*notification.Preference, error) {
		if userID == 4 {
			return notification.ReconstructPreference(4, true, true, true,
				notification.Toggles{}, notification.Toggles{}, now), nil
		}
		return nil, nil
	}

	resp, err := f.uc.Execute(context.Background(), NotifyAssignmentCommand{
		Kind:         AssignmentKindTask,
		EntityID:     70,
		RecipientIDs: []uint{2, 3, 4},
		AssignerID:   1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Recipients, 3)

	assert.Equal(t, "sent", resp.Recipients[0].Email)
	assert.Equal(t, "failed", resp.Recipients[1].Email)
	assert.Contains(t, resp.Recipients[1].Error, "550 mailbox full")
	assert.Equal(t, "sent", resp.Recipients[1].InApp)
	assert.Equal(t, "skipped", resp.Recipients[2].InApp, "task_assigned toggled off")
	assert.Equal(t, "skipped", resp.Recipients[2].Email)

	assert.Equal(t, []string{"ann@corvid.test"}, f.mailer.sent["task_assigned"])
	assert.Len(t, f.notifRepo.created, 2)
}

func TestNotifyAssignment_Errors(t *testing.T) {
	f := newAssignmentFixture()

	_, err := f.uc.Execute(context.Background(), NotifyAssignmentCommand{Kind: AssignmentKindEvent, EntityID: 99, RecipientIDs: []uint{2}})
	assert.True(t, errors.IsNotFoundError(err))

	_, err = f.uc.Execute(context.Background(), NotifyAssignmentCommand{Kind: AssignmentKindTask, EntityID: 99, RecipientIDs: []uint{2}})
	assert.True(t, errors.IsNotFoundError(err))

	_, err = f.uc.Execute(context.Background(), NotifyAssignmentCommand{Kind: "invoice", EntityID: 40})
	assert.True(t, errors.IsValidationError(err))
}

func TestNewlyAdded(t *testing.T) {
	assert.Equal(t, []uint{4, 5}, NewlyAdded([]uint{1, 2, 3}, []uint{2, 4, 1, 5, 4}))
	assert.Empty(t, NewlyAdded([]uint{1, 2}, []uint{2, 1}))
	assert.Equal(t, []uint{7}, NewlyAdded(nil, []uint{7}))
}

func TestNotifyAssignment_UpdateNotifiesOnlyNewRecipients(t *testing.T) {
	f := newAssignmentFixture()

	resp, err := f.uc.Execute(context.Background(), NotifyAssignmentCommand{
		Kind:                 AssignmentKindTask,
		EntityID:             70,
		RecipientIDs:         []uint{2, 3, 4},
		PreviousRecipientIDs: []uint{2, 4},
		AssignerID:           1,
	})
	require.NoError(t, err)

	require.Len(t, resp.Recipients, 1)
	assert.Equal(t, uint(3), resp.Recipients[0].UserID)
	require.Len(t, f.notifRepo.created, 1)
	assert.Equal(t, uint(3), f.notifRepo.created[0].UserID())
	assert.Equal(t, []string{"bob@corvid.test"}, f.mailer.sent["task_assigned"])
}

func TestNotifyAssignment_UnchangedRecipientsNotifyNobody(t *testing.T) {
	f := newAssignmentFixture()

	resp, err := f.uc.Execute(context.Background(), NotifyAssignmentCommand{
		Kind:                 AssignmentKindEvent,
		EntityID:             40,
		RecipientIDs:         []uint{3, 2},
		PreviousRecipientIDs: []uint{2, 3},
		AssignerID:           1,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Recipients)
	assert.Empty(t, f.notifRepo.created)
	assert.Empty(t, f.mailer.sent["event_assigned"])
}
