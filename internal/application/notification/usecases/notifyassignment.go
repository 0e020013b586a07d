package usecases

import (
	"context"
	"fmt"

	"github.com/corvid-crm/corvid/internal/application/notification/dto"
	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
	"github.com/corvid-crm/corvid/internal/shared/utils/setutil"
)

const (
	AssignmentKindEvent = "event"
	AssignmentKindTask  = "task"
)

type NotifyAssignmentCommand struct {
	Kind         string
	EntityID     uint
	RecipientIDs []uint
	AssignerID   uint

	// PreviousRecipientIDs lists who was already assigned before an update.
	// They are not notified again.
	PreviousRecipientIDs []uint
}

// NotifyAssignmentUseCase fans an assignment out to every recipient. One
// recipient failing never affects the others.
type NotifyAssignmentUseCase struct {
	eventRepo calendar.EventRepository
	taskRepo  task.Repository
	userRepo  user.Repository
	deliverer *Deliverer
	mailer    notification.Mailer
	logger    logger.Interface
}

func NewNotifyAssignmentUseCase(
	eventRepo calendar.EventRepository,
	taskRepo task.Repository,
	userRepo user.Repository,
	deliverer *Deliverer,
	mailer notification.Mailer,
	logger logger.Interface,
) *NotifyAssignmentUseCase {
	return &NotifyAssignmentUseCase{
		eventRepo: eventRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		deliverer: deliverer,
		mailer:    mailer,
		logger:    logger,
	}
}

func (uc *NotifyAssignmentUseCase) Execute(ctx context.Context, cmd NotifyAssignmentCommand) (*dto.NotifyAssignmentResponse, error) {
	uc.logger.Infow("executing notify assignment use case",
		"kind", cmd.Kind,
		"entity_id", cmd.EntityID,
		"recipients", len(cmd.RecipientIDs),
		"previous_recipients", len(cmd.PreviousRecipientIDs))

	assignerName := uc.assignerName(ctx, cmd.AssignerID)

	var build func(recipientID uint) Delivery
	switch cmd.Kind {
	case AssignmentKindEvent:
		event, err := uc.eventRepo.GetByID(ctx, cmd.EntityID)
		if err != nil {
			uc.logger.Errorw("failed to get event", "event_id", cmd.EntityID, "error", err)
			return nil, errors.NewInternalError("failed to get event")
		}
		if event == nil {
			return nil, errors.NewNotFoundError("event not found")
		}
		build = func(recipientID uint) Delivery {
			return uc.eventDelivery(event, recipientID, assignerName)
		}
	case AssignmentKindTask:
		t, err := uc.taskRepo.GetByID(ctx, cmd.EntityID)
		if err != nil {
			uc.logger.Errorw("failed to get task", "task_id", cmd.EntityID, "error", err)
			return nil, errors.NewInternalError("failed to get task")
		}
		if t == nil {
			return nil, errors.NewNotFoundError("task not found")
		}
		build = func(recipientID uint) Delivery {
			return uc.taskDelivery(t, recipientID, assignerName)
		}
	default:
		return nil, errors.NewValidationError("invalid assignment kind", cmd.Kind)
	}

	recipients := NewlyAdded(cmd.PreviousRecipientIDs, cmd.RecipientIDs)
	resp := &dto.NotifyAssignmentResponse{
		Kind:       cmd.Kind,
		EntityID:   cmd.EntityID,
		Recipients: make([]*dto.RecipientOutcomeDTO, 0, len(recipients)),
	}
	for _, recipientID := range recipients {
		if recipientID == 0 || recipientID == cmd.AssignerID {
			continue
		}
		out := uc.deliverer.Deliver(ctx, build(recipientID))
		item := &dto.RecipientOutcomeDTO{
			UserID: recipientID,
			InApp:  string(out.InApp),
			Email:  string(out.Email),
		}
		if out.Err != nil {
			item.Error = out.Err.Error()
		}
		resp.Recipients = append(resp.Recipients, item)
	}

	uc.logger.Infow("assignment notifications delivered",
		"kind", cmd.Kind,
		"entity_id", cmd.EntityID,
		"recipients", len(resp.Recipients))
	return resp, nil
}

func (uc *NotifyAssignmentUseCase) assignerName(ctx context.Context, assignerID uint) string {
	if assignerID == 0 {
		return ""
	}
	u, err := uc.userRepo.GetByID(ctx, assignerID)
	if err != nil || u == nil {
		if err != nil {
			uc.logger.Warnw("failed to resolve assigner", "user_id", assignerID, "error", err)
		}
		return ""
	}
	return u.DisplayName()
}

func (uc *NotifyAssignmentUseCase) eventDelivery(event *calendar.Event, recipientID uint, assignerName string) Delivery {
	eventID := event.ID()
	body := fmt.Sprintf("Starts %s", event.StartTime().Format("Mon 02 Jan 15:04"))
	if event.Location() != "" {
		body += " at " + event.Location()
	}
	return Delivery{
		Draft: notification.Draft{
			UserID:         recipientID,
			Type:           notification.TypeEventAssigned,
			Title:          "You were assigned to " + event.Title(),
			Body:           body,
			Link:           fmt.Sprintf("/calendar/events/%d", eventID),
			RelatedEventID: &eventID,
			Metadata:       map[string]any{"assigned_by": assignerName},
		},
		Email: func(ctx context.Context, to string, recipient *user.User) error {
			return uc.mailer.SendEventAssigned(ctx, to, notification.EventAssignedMail{
				RecipientName: recipient.DisplayName(),
				AssignerName:  assignerName,
				EventID:       eventID,
				EventTitle:    event.Title(),
				StartTime:     event.StartTime(),
				Location:      event.Location(),
			})
		},
	}
}

func (uc *NotifyAssignmentUseCase) taskDelivery(t *task.Task, recipientID uint, assignerName string) Delivery {
	taskID := t.ID()
	body := "No due date"
	if due := t.DueAt(); due != nil {
		body = "Due " + due.Format("Mon 02 Jan 15:04")
	}
	return Delivery{
		Draft: notification.Draft{
			UserID:        recipientID,
			Type:          notification.TypeTaskAssigned,
			Title:         "New task: " + t.Title(),
			Body:          body,
			Link:          fmt.Sprintf("/tasks/%d", taskID),
			RelatedTaskID: &taskID,
			Metadata:      map[string]any{"assigned_by": assignerName},
		},
		Email: func(ctx context.Context, to string, recipient *user.User) error {
			return uc.mailer.SendTaskAssigned(ctx, to, notification.TaskMail{
				RecipientName: recipient.DisplayName(),
				AssignerName:  assignerName,
				TaskID:        taskID,
				TaskTitle:     t.Title(),
				DueAt:         t.DueAt(),
			})
		},
	}
}

// NewlyAdded returns the ids of current that were not in previous, so an
// update only notifies the people it added.
func NewlyAdded(previous, current []uint) []uint {
	return setutil.New(previous...).Difference(current)
}
