package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/calendar/dto"
	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type UpsertReminderCommand struct {
	EventID         uint
	ReminderEnabled bool
	ReminderType    string
	EmailEnabled    bool
}

// UpsertReminderForEventUseCase replaces an event's reminder after the event
// is created or edited. The old row is always removed; a new one is written
// only when reminders are on and the event has an assignee.
type UpsertReminderForEventUseCase struct {
	eventRepo    calendar.EventRepository
	reminderRepo calendar.ReminderRepository
	clock        biztime.Clock
	logger       logger.Interface
}

func NewUpsertReminderForEventUseCase(
	eventRepo calendar.EventRepository,
	reminderRepo calendar.ReminderRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *UpsertReminderForEventUseCase {
	return &UpsertReminderForEventUseCase{
		eventRepo:    eventRepo,
		reminderRepo: reminderRepo,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *UpsertReminderForEventUseCase) Execute(ctx context.Context, cmd UpsertReminderCommand) (*dto.EventReminderResponse, error) {
	uc.logger.Infow("executing upsert reminder use case",
		"event_id", cmd.EventID,
		"enabled", cmd.ReminderEnabled,
		"reminder_type", cmd.ReminderType)

	event, err := uc.eventRepo.GetByID(ctx, cmd.EventID)
	if err != nil {
		uc.logger.Errorw("failed to get event", "event_id", cmd.EventID, "error", err)
		return nil, errors.NewInternalError("failed to get event")
	}
	if event == nil {
		return nil, errors.NewNotFoundError("event not found")
	}

	var reminder *calendar.EventReminder
	if cmd.ReminderEnabled && event.HasAssignee() {
		reminder, err = calendar.NewEventReminder(event, calendar.ParseReminderType(cmd.ReminderType), cmd.EmailEnabled, uc.clock.Now())
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := uc.reminderRepo.ReplaceForEvent(ctx, event.ID(), reminder); err != nil {
		uc.logger.Errorw("failed to replace event reminder", "event_id", event.ID(), "error", err)
		return nil, errors.NewInternalError("failed to save reminder")
	}

	if reminder == nil {
		uc.logger.Infow("event reminder cleared", "event_id", event.ID())
	} else {
		uc.logger.Infow("event reminder scheduled",
			"event_id", event.ID(),
			"reminder_id", reminder.ID(),
			"scheduled_at", reminder.ScheduledAt())
	}
	return &dto.EventReminderResponse{EventID: event.ID(), Reminder: dto.ToReminderDTO(reminder)}, nil
}

type CancelRemindersForEventUseCase struct {
	reminderRepo calendar.ReminderRepository
	logger       logger.Interface
}

func NewCancelRemindersForEventUseCase(reminderRepo calendar.ReminderRepository, logger logger.Interface) *CancelRemindersForEventUseCase {
	return &CancelRemindersForEventUseCase{reminderRepo: reminderRepo, logger: logger}
}

// Execute drops every reminder of an event. It does not require the event to
// still exist, so it can run after the event is deleted.
func (uc *CancelRemindersForEventUseCase) Execute(ctx context.Context, eventID uint) error {
	if err := uc.reminderRepo.DeleteByEventID(ctx, eventID); err != nil {
		uc.logger.Errorw("failed to cancel event reminders", "event_id", eventID, "error", err)
		return errors.NewInternalError("failed to cancel reminders")
	}
	uc.logger.Infow("event reminders cancelled", "event_id", eventID)
	return nil
}
