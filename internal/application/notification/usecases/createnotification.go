package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/notification/dto"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type CreateNotificationCommand struct {
	UserID         uint
	Type           string
	Title          string
	Body           string
	Link           string
	RelatedEventID *uint
	RelatedTaskID  *uint
	Metadata       map[string]any
}

type CreateNotificationUseCase struct {
	repo   notification.Repository
	clock  biztime.Clock
	logger logger.Interface
}

func NewCreateNotificationUseCase(repo notification.Repository, clock biztime.Clock, logger logger.Interface) *CreateNotificationUseCase {
	return &CreateNotificationUseCase{repo: repo, clock: clock, logger: logger}
}

func (uc *CreateNotificationUseCase) Execute(ctx context.Context, cmd CreateNotificationCommand) (*dto.NotificationDTO, error) {
	uc.logger.Infow("executing create notification use case", "user_id", cmd.UserID, "type", cmd.Type)

	notifType, err := notification.ParseType(cmd.Type)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	n, err := notification.NewNotification(notification.Draft{
		UserID:         cmd.UserID,
		Type:           notifType,
		Title:          cmd.Title,
		Body:           cmd.Body,
		Link:           cmd.Link,
		RelatedEventID: cmd.RelatedEventID,
		RelatedTaskID:  cmd.RelatedTaskID,
		Metadata:       cmd.Metadata,
	}, uc.clock.Now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.repo.Create(ctx, n); err != nil {
		uc.logger.Errorw("failed to create notification", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to create notification")
	}

	uc.logger.Infow("notification created", "notification_id", n.ID(), "user_id", cmd.UserID)
	return dto.ToNotificationDTO(n), nil
}
