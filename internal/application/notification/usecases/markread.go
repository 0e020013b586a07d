package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type MarkNotificationAsReadCommand struct {
	NotificationID uint
	UserID         uint
}

type MarkNotificationAsReadUseCase struct {
	repo   notification.Repository
	clock  biztime.Clock
	logger logger.Interface
}

func NewMarkNotificationAsReadUseCase(repo notification.Repository, clock biztime.Clock, logger logger.Interface) *MarkNotificationAsReadUseCase {
	return &MarkNotificationAsReadUseCase{repo: repo, clock: clock, logger: logger}
}

// Execute marks one notification read. Notifications of other users are
// reported as not found so their existence is not revealed.
func (uc *MarkNotificationAsReadUseCase) Execute(ctx context.Context, cmd MarkNotificationAsReadCommand) error {
	uc.logger.Infow("executing mark notification as read use case",
		"notification_id", cmd.NotificationID,
		"user_id", cmd.UserID)

	n, err := uc.repo.GetByID(ctx, cmd.NotificationID)
	if err != nil {
		uc.logger.Errorw("failed to get notification", "notification_id", cmd.NotificationID, "error", err)
		return errors.NewInternalError("failed to get notification")
	}
	if n == nil || !n.IsOwnedBy(cmd.UserID) {
		return errors.NewNotFoundError("notification not found")
	}
	if n.IsRead() {
		return nil
	}

	if err := uc.repo.MarkRead(ctx, n.ID(), cmd.UserID, uc.clock.Now()); err != nil {
		uc.logger.Errorw("failed to mark notification as read", "notification_id", n.ID(), "error", err)
		return errors.NewInternalError("failed to mark notification as read")
	}
	return nil
}

type MarkAllAsReadUseCase struct {
	repo   notification.Repository
	clock  biztime.Clock
	logger logger.Interface
}

func NewMarkAllAsReadUseCase(repo notification.Repository, clock biztime.Clock, logger logger.Interface) *MarkAllAsReadUseCase {
	return &MarkAllAsReadUseCase{repo: repo, clock: clock, logger: logger}
}

func (uc *MarkAllAsReadUseCase) Execute(ctx context.Context, userID uint) (int64, error) {
	updated, err := uc.repo.MarkAllRead(ctx, userID, uc.clock.Now())
	if err != nil {
		uc.logger.Errorw("failed to mark all notifications as read", "user_id", userID, "error", err)
		return 0, errors.NewInternalError("failed to mark notifications as read")
	}
	uc.logger.Infow("notifications marked as read", "user_id", userID, "count", updated)
	return updated, nil
}
