package routes

import (
	"github.com/gin-gonic/gin"

	notificationhandlers "github.com/corvid-crm/corvid/internal/interfaces/http/handlers/notification"
	"github.com/corvid-crm/corvid/internal/interfaces/http/middleware"
)

type NotificationRouteConfig struct {
	NotificationHandler *notificationhandlers.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupNotificationRoutes(api *gin.RouterGroup, config *NotificationRouteConfig) {
	notifications := api.Group("/notifications")
	notifications.Use(config.AuthMiddleware.RequireAuth(), middleware.RequireUser())
	{
		// Collection operations (no ID parameter)
		notifications.GET("", config.NotificationHandler.ListNotifications)

		// Specific named endpoints (must come BEFORE /:id to avoid conflicts)
		notifications.GET("/unread-count", config.NotificationHandler.UnreadCount)
		notifications.POST("/read-all", config.NotificationHandler.MarkAllRead)
		notifications.GET("/preferences", config.NotificationHandler.GetPreferences)
		notifications.PATCH("/preferences", config.NotificationHandler.UpdatePreferences)

		notifications.POST("/:id/read", config.NotificationHandler.MarkRead)
	}

	assignments := api.Group("/assignments")
	assignments.Use(config.AuthMiddleware.RequireAuth(), middleware.RequireStaff())
	{
		assignments.POST("/notify", config.NotificationHandler.NotifyAssignment)
	}

	admin := api.Group("/admin/notifications")
	admin.Use(config.AuthMiddleware.RequireAuth(), middleware.RequireElevated())
	{
		admin.POST("", config.NotificationHandler.CreateNotification)
	}
}
