package routes

import (
	"github.com/gin-gonic/gin"

	calendarhandlers "github.com/corvid-crm/corvid/internal/interfaces/http/handlers/calendar"
	"github.com/corvid-crm/corvid/internal/interfaces/http/middleware"
)

type CalendarRouteConfig struct {
	ReminderHandler *calendarhandlers.ReminderHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupCalendarRoutes(api *gin.RouterGroup, config *CalendarRouteConfig) {
	events := api.Group("/events")
	events.Use(config.AuthMiddleware.RequireAuth(), middleware.RequireStaff())
	{
		events.PUT("/:id/reminder", config.ReminderHandler.UpsertReminder)
		events.DELETE("/:id/reminder", config.ReminderHandler.CancelReminders)
	}

	adminSweeps := api.Group("/admin/sweeps")
	adminSweeps.Use(config.AuthMiddleware.RequireAuth(), middleware.RequireElevated())
	{
		adminSweeps.POST("/reminders", config.ReminderHandler.RunSweep)
	}
}
