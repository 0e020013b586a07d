package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/notification/dto"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
	"github.com/corvid-crm/corvid/internal/shared/utils"
)

type ListNotificationsQuery struct {
	UserID     uint
	UnreadOnly bool
	Page       int
	PageSize   int
}

type ListNotificationsUseCase struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewListNotificationsUseCase(repo notification.Repository, logger logger.Interface) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{repo: repo, logger: logger}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, query ListNotificationsQuery) (*dto.ListNotificationsResponse, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)

	list, total, err := uc.repo.ListByUser(ctx, query.UserID, notification.ListFilter{
		UnreadOnly: query.UnreadOnly,
		Page:       p.Page,
		PageSize:   p.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list notifications", "user_id", query.UserID, "error", err)
		return nil, errors.NewInternalError("failed to list notifications")
	}

	return &dto.ListNotificationsResponse{
		Notifications: dto.ToNotificationDTOs(list),
		Total:         total,
		Page:          p.Page,
		PageSize:      p.PageSize,
	}, nil
}

type GetUnreadCountUseCase struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewGetUnreadCountUseCase(repo notification.Repository, logger logger.Interface) *GetUnreadCountUseCase {
	return &GetUnreadCountUseCase{repo: repo, logger: logger}
}

func (uc *GetUnreadCountUseCase) Execute(ctx context.Context, userID uint) (int64, error) {
	count, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to count unread notifications", "user_id", userID, "error", err)
		return 0, errors.NewInternalError("failed to count unread notifications")
	}
	return count, nil
}
