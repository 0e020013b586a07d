package usecases

import (
	"context"
	"fmt"

	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// Outcome is the result of one channel for one recipient.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// EmailFunc sends the email form of a delivery to one resolved staff user.
type EmailFunc func(ctx context.Context, to string, recipient *user.User) error

// Delivery describes one notification for one user on both channels.
// A nil Email means the kind has no email form.
type Delivery struct {
	Draft notification.Draft
	Email EmailFunc
}

type DeliveryOutcome struct {
	UserID uint
	InApp  Outcome
	Email  Outcome
	Err    error
}

// Deliverer sends a Delivery honoring the recipient's preferences. Channel
// failures are logged and reported in the outcome, never returned.
type Deliverer struct {
	notificationRepo notification.Repository
	preferenceRepo   notification.PreferenceRepository
	userRepo         user.Repository
	clock            biztime.Clock
	logger           logger.Interface
}

func NewDeliverer(
	notificationRepo notification.Repository,
	preferenceRepo notification.PreferenceRepository,
	userRepo user.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *Deliverer {
	return &Deliverer{
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		userRepo:         userRepo,
		clock:            clock,
		logger:           logger,
	}
}

func (d *Deliverer) Deliver(ctx context.Context, del Delivery) (out DeliveryOutcome) {
	userID := del.Draft.UserID
	out = DeliveryOutcome{UserID: userID, InApp: OutcomeSkipped, Email: OutcomeSkipped}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorw("panic while delivering notification",
				"user_id", userID,
				"type", del.Draft.Type,
				"panic", r)
			out.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	pref, err := notification.LoadPreference(ctx, d.preferenceRepo, userID)
	if err != nil {
		d.logger.Errorw("failed to load notification preference", "user_id", userID, "error", err)
		out.InApp, out.Email, out.Err = OutcomeFailed, OutcomeFailed, err
		return out
	}

	if pref.Allows(errors.ChannelBrowser, del.Draft.Type) {
		if err := d.createInApp(ctx, del.Draft); err != nil {
			d.logger.Warnw("failed to create in-app notification",
				"user_id", userID,
				"type", del.Draft.Type,
				"error", err)
			out.InApp, out.Err = OutcomeFailed, err
		} else {
			out.InApp = OutcomeSent
		}
	}

	if del.Email != nil && pref.Allows(errors.ChannelEmail, del.Draft.Type) {
		if err := d.sendEmail(ctx, userID, del.Email); err != nil {
			d.logger.Warnw("failed to send notification email",
				"user_id", userID,
				"type", del.Draft.Type,
				"error", err)
			out.Email = OutcomeFailed
			if out.Err == nil {
				out.Err = err
			}
		} else {
			out.Email = OutcomeSent
		}
	}

	return out
}

func (d *Deliverer) createInApp(ctx context.Context, draft notification.Draft) error {
	n, err := notification.NewNotification(draft, d.clock.Now())
	if err != nil {
		return err
	}
	return d.notificationRepo.Create(ctx, n)
}

func (d *Deliverer) sendEmail(ctx context.Context, userID uint, send EmailFunc) error {
	recipient, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}
	if recipient == nil || !recipient.IsActive() || recipient.Email() == "" {
		return errors.NewDeliveryError(errors.ChannelEmail, fmt.Sprintf("user #%d", userID), fmt.Errorf("no active email address"))
	}
	return send(ctx, recipient.Email(), recipient)
}
