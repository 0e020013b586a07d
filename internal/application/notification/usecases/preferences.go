package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/notification/dto"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type GetPreferencesUseCase struct {
	repo   notification.PreferenceRepository
	clock  biztime.Clock
	logger logger.Interface
}

func NewGetPreferencesUseCase(repo notification.PreferenceRepository, clock biztime.Clock, logger logger.Interface) *GetPreferencesUseCase {
	return &GetPreferencesUseCase{repo: repo, clock: clock, logger: logger}
}

// Execute returns the user's preferences, storing the defaults on first read.
func (uc *GetPreferencesUseCase) Execute(ctx context.Context, userID uint) (*dto.PreferenceDTO, error) {
	p, err := uc.repo.Get(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get notification preference", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to get notification preferences")
	}
	if p == nil {
		p = notification.DefaultPreference(userID)
		p.Apply(notification.Patch{}, uc.clock.Now())
		if err := uc.repo.Save(ctx, p); err != nil {
			uc.logger.Errorw("failed to create default notification preference", "user_id", userID, "error", err)
			return nil, errors.NewInternalError("failed to get notification preferences")
		}
		uc.logger.Infow("default notification preference created", "user_id", userID)
	}
	return dto.ToPreferenceDTO(p), nil
}

type UpdatePreferencesCommand struct {
	UserID  uint
	Request dto.UpdatePreferencesRequest
}

type UpdatePreferencesUseCase struct {
	repo   notification.PreferenceRepository
	clock  biztime.Clock
	logger logger.Interface
}

func NewUpdatePreferencesUseCase(repo notification.PreferenceRepository, clock biztime.Clock, logger logger.Interface) *UpdatePreferencesUseCase {
	return &UpdatePreferencesUseCase{repo: repo, clock: clock, logger: logger}
}

func (uc *UpdatePreferencesUseCase) Execute(ctx context.Context, cmd UpdatePreferencesCommand) (*dto.PreferenceDTO, error) {
	uc.logger.Infow("executing update notification preferences use case", "user_id", cmd.UserID)

	p, err := notification.LoadPreference(ctx, uc.repo, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get notification preference", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to update notification preferences")
	}

	p.Apply(cmd.Request.ToPatch(), uc.clock.Now())

	if err := uc.repo.Save(ctx, p); err != nil {
		uc.logger.Errorw("failed to save notification preference", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to update notification preferences")
	}
	return dto.ToPreferenceDTO(p), nil
}
