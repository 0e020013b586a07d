package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/corvid-crm/corvid/internal/interfaces/http/handlers/ticket"
	"github.com/corvid-crm/corvid/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupTicketRoutes registers the ticket routes. Clients may open tickets,
// read their own and reply; every other operation is staff only.
func SetupTicketRoutes(api *gin.RouterGroup, config *TicketRouteConfig) {
	tickets := api.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		tickets.POST("", config.TicketHandler.CreateTicket)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		tickets.POST("/:id/messages", config.TicketHandler.AddMessage)
		tickets.POST("/:id/assign",
			middleware.RequireStaff(),
			config.TicketHandler.AssignTicket)
		tickets.POST("/:id/close",
			middleware.RequireStaff(),
			config.TicketHandler.CloseTicket)
		tickets.POST("/:id/reopen",
			middleware.RequireStaff(),
			config.TicketHandler.ReopenTicket)
		tickets.POST("/:id/time",
			middleware.RequireStaff(),
			config.TicketHandler.LogTime)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id", config.TicketHandler.GetTicket)
		tickets.PATCH("/:id",
			middleware.RequireStaff(),
			config.TicketHandler.UpdateTicket)
		tickets.DELETE("/:id",
			middleware.RequireElevated(),
			config.TicketHandler.DeleteTicket)
	}
}
