// Package calendar exposes event reminder scheduling and the on-demand
// reminder sweep over HTTP.
package calendar

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corvid-crm/corvid/internal/application/calendar/dto"
	"github.com/corvid-crm/corvid/internal/application/calendar/usecases"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
	"github.com/corvid-crm/corvid/internal/shared/utils"
)

type upsertReminderExecutor interface {
	Execute(ctx context.Context, cmd usecases.UpsertReminderCommand) (*dto.EventReminderResponse, error)
}

type cancelRemindersExecutor interface {
	Execute(ctx context.Context, eventID uint) error
}

type reminderSweepExecutor interface {
	Execute(ctx context.Context) (int, error)
}

type ReminderHandler struct {
	upsertUC upsertReminderExecutor
	cancelUC cancelRemindersExecutor
	sweepUC  reminderSweepExecutor
	logger   logger.Interface
}

func NewReminderHandler(
	upsertUC upsertReminderExecutor,
	cancelUC cancelRemindersExecutor,
	sweepUC reminderSweepExecutor,
	logger logger.Interface,
) *ReminderHandler {
	return &ReminderHandler{
		upsertUC: upsertUC,
		cancelUC: cancelUC,
		sweepUC:  sweepUC,
		logger:   logger,
	}
}

// UpsertReminder handles PUT /api/events/:id/reminder
func (h *ReminderHandler) UpsertReminder(c *gin.Context) {
	eventID, err := utils.ParseIDParam(c, "id", "event")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpsertReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for upsert reminder", "event_id", eventID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.upsertUC.Execute(c.Request.Context(), usecases.UpsertReminderCommand{
		EventID:         eventID,
		ReminderEnabled: req.ReminderEnabled,
		ReminderType:    req.ReminderType,
		EmailEnabled:    req.EmailEnabled,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CancelReminders handles DELETE /api/events/:id/reminder
func (h *ReminderHandler) CancelReminders(c *gin.Context) {
	eventID, err := utils.ParseIDParam(c, "id", "event")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.cancelUC.Execute(c.Request.Context(), eventID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// RunSweep handles POST /api/admin/sweeps/reminders
func (h *ReminderHandler) RunSweep(c *gin.Context) {
	processed, err := h.sweepUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("on-demand reminder sweep failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reminder sweep completed", dto.SweepResponse{Processed: processed})
}
