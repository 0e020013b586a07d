package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

var now = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func reminderDelivery(userID uint, sent *[]string) Delivery {
	return Delivery{
		Draft: notification.Draft{
			UserID: userID,
			Type:   notification.TypeEventReminder,
			Title:  "Standup in 15 minutes",
		},
		Email: func(_ context.Context, to string, _ *user.User) error {
			*sent = append(*sent, to)
			return nil
		},
	}
}

func TestDeliverer_DefaultsWhenNoPreferenceStored(t *testing.T) {
	notifRepo := &mockNotificationRepository{}
	prefRepo := &mockPreferenceRepository{}
	d := NewDeliverer(notifRepo, prefRepo, staffUsers(mustUser(5, "eve@corvid.test", "Eve", true)),
		biztime.NewFixedClock(now), logger.NewNopLogger())

	var sent []string
	out := d.Deliver(context.Background(), reminderDelivery(5, &sent))

	assert.Equal(t, OutcomeSent, out.InApp)
	assert.Equal(t, OutcomeSent, out.Email)
	assert.NoError(t, out.Err)
	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, now, notifRepo.created[0].CreatedAt())
	assert.Equal(t, []string{"eve@corvid.test"}, sent)
	assert.Empty(t, prefRepo.saved, "defaults are not persisted by delivery")
}

func TestDeliverer_HonoursToggles(t *testing.T) {
	on := notification.Toggles{EventReminder: true}
	tests := []struct {
		name      string
		pref      *notification.Preference
		wantInApp Outcome
		wantEmail Outcome
	}{
		{"email toggle off", notification.ReconstructPreference(5, true, true, true, notification.Toggles{}, on, now), OutcomeSent, OutcomeSkipped},
		{"browser master off", notification.ReconstructPreference(5, true, false, true, on, on, now), OutcomeSkipped, OutcomeSent},
		{"everything off", notification.ReconstructPreference(5, false, false, false, on, on, now), OutcomeSkipped, OutcomeSkipped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifRepo := &mockNotificationRepository{}
			prefRepo := &mockPreferenceRepository{
				GetFunc: func(context.Context, uint) (*notification.Preference, error) { return tt.pref, nil },
			}
			d := NewDeliverer(notifRepo, prefRepo, staffUsers(mustUser(5, "eve@corvid.test", "Eve", true)),
				biztime.NewFixedClock(now), logger.NewNopLogger())

			var sent []string
			out := d.Deliver(context.Background(), reminderDelivery(5, &sent))

			assert.Equal(t, tt.wantInApp, out.InApp)
			assert.Equal(t, tt.wantEmail, out.Email)
			assert.Equal(t, tt.wantInApp == OutcomeSent, len(notifRepo.created) == 1)
			assert.Equal(t, tt.wantEmail == OutcomeSent, len(sent) == 1)
		})
	}
}

func TestDeliverer_InactiveRecipientEmailFails(t *testing.T) {
	d := NewDeliverer(&mockNotificationRepository{}, &mockPreferenceRepository{},
		staffUsers(mustUser(5, "eve@corvid.test", "Eve", false)),
		biztime.NewFixedClock(now), logger.NewNopLogger())

	var sent []string
	out := d.Deliver(context.Background(), reminderDelivery(5, &sent))

	assert.Equal(t, OutcomeSent, out.InApp)
	assert.Equal(t, OutcomeFailed, out.Email)
	assert.True(t, errors.IsDeliveryError(out.Err))
	assert.Empty(t, sent)
}

func TestDeliverer_InAppFailureDoesNotBlockEmail(t *testing.T) {
	notifRepo := &mockNotificationRepository{
		CreateFunc: func(context.Context, *notification.Notification) error { return fmt.Errorf("db down") },
	}
	d := NewDeliverer(notifRepo, &mockPreferenceRepository{},
		staffUsers(mustUser(5, "eve@corvid.test", "Eve", true)),
		biztime.NewFixedClock(now), logger.NewNopLogger())

	var sent []string
	out := d.Deliver(context.Background(), reminderDelivery(5, &sent))

	assert.Equal(t, OutcomeFailed, out.InApp)
	assert.Equal(t, OutcomeSent, out.Email)
	assert.EqualError(t, out.Err, "db down")
}

func TestDeliverer_RecoversPanics(t *testing.T) {
	d := NewDeliverer(&mockNotificationRepository{}, &mockPreferenceRepository{},
		staffUsers(mustUser(5, "eve@corvid.test", "Eve", true)),
		biztime.NewFixedClock(now), logger.NewNopLogger())

	del := Delivery{
		Draft: notification.Draft{UserID: 5, Type: notification.TypeTaskAssigned, Title: "x"},
		Email: func(context.Context, string, *user.User) error { panic("template exploded") },
	}

	var out DeliveryOutcome
	require.NotPanics(t, func() { out = d.Deliver(context.Background(), del) })
	assert.Error(t, out.Err)
	assert.Equal(t, OutcomeSent, out.InApp)
}
