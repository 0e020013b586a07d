package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corvid-crm/corvid/internal/interfaces/http/middleware"
	"github.com/corvid-crm/corvid/internal/interfaces/http/routes"
	"github.com/corvid-crm/corvid/internal/shared/utils"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.healthCheck)

	api := c.engine.Group("/api")

	routes.SetupTicketRoutes(api, &routes.TicketRouteConfig{
		TicketHandler:  c.hdlrs.ticketHandler,
		AuthMiddleware: c.authMiddleware,
	})
	routes.SetupCalendarRoutes(api, &routes.CalendarRouteConfig{
		ReminderHandler: c.hdlrs.reminderHandler,
		AuthMiddleware:  c.authMiddleware,
	})
	routes.SetupNotificationRoutes(api, &routes.NotificationRouteConfig{
		NotificationHandler: c.hdlrs.notificationHandler,
		AuthMiddleware:      c.authMiddleware,
	})
}

func (c *Container) healthCheck(ctx *gin.Context) {
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		c.log.Errorw("health check failed", "error", err)
		utils.ErrorResponse(ctx, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	scheduler := "stopped"
	if c.schedulerRunning() {
		scheduler = "running"
	}
	utils.SuccessResponse(ctx, http.StatusOK, "", gin.H{"status": "ok", "scheduler": scheduler})
}
