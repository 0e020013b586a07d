// Package notification exposes the notification center, preferences and
// assignment fan-out over HTTP. Every route acts on the calling user.
package notification

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/corvid-crm/corvid/internal/application/notification/dto"
	"github.com/corvid-crm/corvid/internal/application/notification/usecases"
	"github.com/corvid-crm/corvid/internal/interfaces/http/middleware"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
	"github.com/corvid-crm/corvid/internal/shared/utils"
)

type listNotificationsExecutor interface {
	Execute(ctx context.Context, query usecases.ListNotificationsQuery) (*dto.ListNotificationsResponse, error)
}

type unreadCountExecutor interface {
	Execute(ctx context.Context, userID uint) (int64, error)
}

type markReadExecutor interface {
	Execute(ctx context.Context, cmd usecases.MarkNotificationAsReadCommand) error
}

type markAllReadExecutor interface {
	Execute(ctx context.Context, userID uint) (int64, error)
}

type getPreferencesExecutor interface {
	Execute(ctx context.Context, userID uint) (*dto.PreferenceDTO, error)
}

type updatePreferencesExecutor interface {
	Execute(ctx context.Context, cmd usecases.UpdatePreferencesCommand) (*dto.PreferenceDTO, error)
}

type notifyAssignmentExecutor interface {
	Execute(ctx context.Context, cmd usecases.NotifyAssignmentCommand) (*dto.NotifyAssignmentResponse, error)
}

type createNotificationExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateNotificationCommand) (*dto.NotificationDTO, error)
}

// UseCases bundles the executors a NotificationHandler needs.
type UseCases struct {
	List              listNotificationsExecutor
	UnreadCount       unreadCountExecutor
	MarkRead          markReadExecutor
	MarkAllRead       markAllReadExecutor
	GetPreferences    getPreferencesExecutor
	UpdatePreferences updatePreferencesExecutor
	NotifyAssignment  notifyAssignmentExecutor
	Create            createNotificationExecutor
}

type NotificationHandler struct {
	uc     UseCases
	logger logger.Interface
}

func NewNotificationHandler(uc UseCases, logger logger.Interface) *NotificationHandler {
	return &NotificationHandler{uc: uc, logger: logger}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	p := utils.ParsePagination(c)
	unreadOnly, _ := strconv.ParseBool(c.Query("unread_only"))

	result, err := h.uc.List.Execute(c.Request.Context(), usecases.ListNotificationsQuery{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Page:       p.Page,
		PageSize:   p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Notifications, result.Total, result.Page, result.PageSize)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	count, err := h.uc.UnreadCount.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.UnreadCountResponse{Count: count})
}

// MarkRead handles POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	notificationID, err := utils.ParseIDParam(c, "id", "notification")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.uc.MarkRead.Execute(c.Request.Context(), usecases.MarkNotificationAsReadCommand{
		NotificationID: notificationID,
		UserID:         userID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	updated, err := h.uc.MarkAllRead.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "All notifications marked as read", dto.MarkAllReadResponse{Updated: updated})
}

// GetPreferences handles GET /api/notifications/preferences
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	result, err := h.uc.GetPreferences.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdatePreferences handles PATCH /api/notifications/preferences
func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update preferences", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.uc.UpdatePreferences.Execute(c.Request.Context(), usecases.UpdatePreferencesCommand{
		UserID:  userID,
		Request: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Preferences updated successfully", result)
}

// NotifyAssignment handles POST /api/assignments/notify
func (h *NotificationHandler) NotifyAssignment(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.NotifyAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for notify assignment", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.uc.NotifyAssignment.Execute(c.Request.Context(), usecases.NotifyAssignmentCommand{
		Kind:                 req.Kind,
		EntityID:             req.EntityID,
		RecipientIDs:         req.RecipientIDs,
		PreviousRecipientIDs: req.PreviousRecipientIDs,
		AssignerID:           userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateNotification handles POST /api/admin/notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create notification", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.uc.Create.Execute(c.Request.Context(), usecases.CreateNotificationCommand{
		UserID:         req.UserID,
		Type:           req.Type,
		Title:          req.Title,
		Body:           req.Body,
		Link:           req.Link,
		RelatedEventID: req.RelatedEventID,
		RelatedTaskID:  req.RelatedTaskID,
		Metadata:       req.Metadata,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "notification created")
}

func (h *NotificationHandler) userID(c *gin.Context) (uint, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok || actor.UserID == 0 {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("not authenticated"))
		return 0, false
	}
	return actor.UserID, true
}
