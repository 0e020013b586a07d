package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/goroutine"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

const (
	DefaultSweepBatchSize     = 200
	DefaultBrowserMaxAttempts = 3

	reminderSweepLockName = "event_reminders"
)

// SweepLocker keeps overlapping sweeps on different instances apart.
type SweepLocker interface {
	TryAcquire(ctx context.Context, name string) (release func(context.Context) error, acquired bool, err error)
}

type SweepOptions struct {
	BatchSize          int
	BrowserMaxAttempts int
	// Locker is optional; without it every call sweeps.
	Locker SweepLocker
}

// RunDueReminderSweepUseCase dispatches due event reminders. Each channel is
// claimed before it is delivered, so a reminder is never sent twice on the
// same channel even when sweeps overlap.
type RunDueReminderSweepUseCase struct {
	eventRepo    calendar.EventRepository
	reminderRepo calendar.ReminderRepository
	notifRepo    notification.Repository
	prefRepo     notification.PreferenceRepository
	userRepo     user.Repository
	mailer       notification.Mailer
	clock        biztime.Clock
	logger       logger.Interface
	opts         SweepOptions
}

func NewRunDueReminderSweepUseCase(
	eventRepo calendar.EventRepository,
	reminderRepo calendar.ReminderRepository,
	notifRepo notification.Repository,
	prefRepo notification.PreferenceRepository,
	userRepo user.Repository,
	mailer notification.Mailer,
	clock biztime.Clock,
	logger logger.Interface,
	opts SweepOptions,
) *RunDueReminderSweepUseCase {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultSweepBatchSize
	}
	if opts.BrowserMaxAttempts <= 0 {
		opts.BrowserMaxAttempts = DefaultBrowserMaxAttempts
	}
	return &RunDueReminderSweepUseCase{
		eventRepo:    eventRepo,
		reminderRepo: reminderRepo,
		notifRepo:    notifRepo,
		prefRepo:     prefRepo,
		userRepo:     userRepo,
		mailer:       mailer,
		clock:        clock,
		logger:       logger,
		opts:         opts,
	}
}

// Execute runs one sweep and returns the number of reminders examined.
func (uc *RunDueReminderSweepUseCase) Execute(ctx context.Context) (int, error) {
	if uc.opts.Locker != nil {
		release, acquired, err := uc.opts.Locker.TryAcquire(ctx, reminderSweepLockName)
		switch {
		case err != nil:
			uc.logger.Warnw("sweep lock unavailable, sweeping without it", "error", err)
		case !acquired:
			uc.logger.Debugw("reminder sweep already running elsewhere, skipping")
			return 0, nil
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					uc.logger.Warnw("failed to release sweep lock", "error", err)
				}
			}()
		}
	}

	now := uc.clock.Now()
	due, err := uc.reminderRepo.FindDue(ctx, now, uc.opts.BatchSize)
	if err != nil {
		uc.logger.Errorw("failed to find due reminders", "error", err)
		return 0, fmt.Errorf("failed to find due reminders: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	uc.logger.Infow("sweeping due reminders", "count", len(due), "now", now)
	for _, r := range due {
		if ctx.Err() != nil {
			break
		}
		uc.process(ctx, r)
	}
	return len(due), nil
}

func (uc *RunDueReminderSweepUseCase) process(ctx context.Context, r *calendar.EventReminder) {
	defer goroutine.Recover(uc.logger, "reminder-sweep", "reminder_id", r.ID())

	event, err := uc.eventRepo.GetByID(ctx, r.EventID())
	if err != nil {
		uc.logger.Errorw("failed to get event for reminder", "reminder_id", r.ID(), "event_id", r.EventID(), "error", err)
		return
	}
	now := uc.clock.Now()
	if event == nil {
		uc.logger.Warnw("reminder points at a missing event, settling it", "reminder_id", r.ID(), "event_id", r.EventID())
		uc.settle(ctx, r, now)
		return
	}

	target := event.ReminderTarget()
	pref, err := notification.LoadPreference(ctx, uc.prefRepo, target)
	if err != nil {
		uc.logger.Errorw("failed to load notification preference", "reminder_id", r.ID(), "user_id", target, "error", err)
		return
	}

	if r.BrowserPending() {
		uc.deliverBrowser(ctx, r, event, target, pref, now)
	}
	if r.EmailPending() {
		uc.deliverEmail(ctx, r, event, target, pref, now)
	}
}

func (uc *RunDueReminderSweepUseCase) deliverBrowser(ctx context.Context, r *calendar.EventReminder, event *calendar.Event, target uint, pref *notification.Preference, now time.Time) {
	won, err := uc.reminderRepo.ClaimBrowser(ctx, r.ID(), now)
	if err != nil {
		uc.logger.Errorw("failed to claim browser reminder", "reminder_id", r.ID(), "error", err)
		return
	}
	if !won {
		return
	}
	if !pref.Allows(errors.ChannelBrowser, notification.TypeEventReminder) {
		uc.logger.Debugw("browser reminder suppressed by preference", "reminder_id", r.ID(), "user_id", target)
		return
	}

	eventID := event.ID()
	n, err := notification.NewNotification(notification.Draft{
		UserID:         target,
		Type:           notification.TypeEventReminder,
		Title:          fmt.Sprintf("%s starts in %s", event.Title(), r.ReminderType().Label()),
		Body:           reminderBody(event),
		Link:           fmt.Sprintf("/calendar/events/%d", eventID),
		RelatedEventID: &eventID,
		Metadata: map[string]any{
			"reminder_id":   r.ID(),
			"reminder_type": r.ReminderType().String(),
		},
	}, now)
	if err == nil {
		err = uc.notifRepo.Create(ctx, n)
	}
	if err == nil {
		uc.logger.Infow("browser reminder delivered", "reminder_id", r.ID(), "user_id", target)
		return
	}

	released, relErr := uc.reminderRepo.ReleaseBrowser(context.WithoutCancel(ctx), r.ID(), uc.opts.BrowserMaxAttempts)
	switch {
	case relErr != nil:
		uc.logger.Errorw("failed to release browser reminder claim",
			"reminder_id", r.ID(),
			"error", err,
			"release_error", relErr)
	case released:
		uc.logger.Warnw("browser reminder failed, will retry",
			"reminder_id", r.ID(),
			"attempt", r.BrowserAttempts()+1,
			"error", err)
	default:
		uc.logger.Errorw("browser reminder dead-lettered after max attempts",
			"reminder_id", r.ID(),
			"max_attempts", uc.opts.BrowserMaxAttempts,
			"error", err)
	}
}

func (uc *RunDueReminderSweepUseCase) deliverEmail(ctx context.Context, r *calendar.EventReminder, event *calendar.Event, target uint, pref *notification.Preference, now time.Time) {
	won, err := uc.reminderRepo.ClaimEmail(ctx, r.ID(), now)
	if err != nil {
		uc.logger.Errorw("failed to claim email reminder", "reminder_id", r.ID(), "error", err)
		return
	}
	if !won {
		return
	}
	if !pref.Allows(errors.ChannelEmail, notification.TypeEventReminder) {
		uc.logger.Debugw("email reminder suppressed by preference", "reminder_id", r.ID(), "user_id", target)
		return
	}

	recipient, err := uc.userRepo.GetByID(ctx, target)
	if err != nil {
		uc.logger.Errorw("failed to get reminder recipient", "reminder_id", r.ID(), "user_id", target, "error", err)
		return
	}
	if recipient == nil || !recipient.IsActive() || recipient.Email() == "" {
		uc.logger.Warnw("reminder recipient has no active email address", "reminder_id", r.ID(), "user_id", target)
		return
	}

	err = uc.mailer.SendEventReminder(ctx, recipient.Email(), notification.EventReminderMail{
		RecipientName: recipient.DisplayName(),
		EventID:       event.ID(),
		EventTitle:    event.Title(),
		StartTime:     event.StartTime(),
		Location:      event.Location(),
		Lead:          r.ReminderType().Label(),
	})
	if err != nil {
		uc.logger.Warnw("email reminder failed, not retried",
			"reminder_id", r.ID(),
			"user_id", target,
			"error", err)
		return
	}
	uc.logger.Infow("email reminder delivered", "reminder_id", r.ID(), "user_id", target)
}

// settle marks both channels sent without delivering anything.
func (uc *RunDueReminderSweepUseCase) settle(ctx context.Context, r *calendar.EventReminder, now time.Time) {
	if r.BrowserPending() {
		if _, err := uc.reminderRepo.ClaimBrowser(ctx, r.ID(), now); err != nil {
			uc.logger.Errorw("failed to settle browser reminder", "reminder_id", r.ID(), "error", err)
		}
	}
	if r.EmailPending() {
		if _, err := uc.reminderRepo.ClaimEmail(ctx, r.ID(), now); err != nil {
			uc.logger.Errorw("failed to settle email reminder", "reminder_id", r.ID(), "error", err)
		}
	}
}

func reminderBody(event *calendar.Event) string {
	body := "Starts " + event.StartTime().In(biztime.Location()).Format("Mon 02 Jan 15:04")
	if event.Location() != "" {
		body += " at " + event.Location()
	}
	return body
}
