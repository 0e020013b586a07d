// Package ticket exposes the support ticket use cases over HTTP.
package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/application/ticket/usecases"
	domain "github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/interfaces/http/middleware"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
	"github.com/corvid-crm/corvid/internal/shared/utils"
)

type TicketHandler struct {
	uc     UseCases
	logger logger.Interface
}

func NewTicketHandler(uc UseCases, logger logger.Interface) *TicketHandler {
	return &TicketHandler{uc: uc, logger: logger}
}

// CreateTicket handles POST /api/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	author, ok := h.author(c)
	if !ok {
		return
	}

	var req dto.CreateTicketRequest
	if !h.bind(c, &req, "create ticket") {
		return
	}

	result, err := h.uc.Create.Execute(c.Request.Context(), usecases.CreateTicketCommand{
		ClientID:       req.ClientID,
		Subject:        req.Subject,
		Description:    req.Description,
		Priority:       req.Priority,
		SupportType:    req.SupportType,
		InitialMessage: req.InitialMessage,
		Author:         author,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// GetTicket handles GET /api/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	author, ok := h.author(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Get.Execute(c.Request.Context(), usecases.GetTicketQuery{TicketID: ticketID, Viewer: author})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateTicket handles PATCH /api/tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateTicketRequest
	if !h.bind(c, &req, "update ticket") {
		return
	}

	result, err := h.uc.Update.Execute(c.Request.Context(), usecases.UpdateTicketCommand{
		TicketID:    ticketID,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		SupportType: req.SupportType,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", result)
}

// AddMessage handles POST /api/tickets/:id/messages
func (h *TicketHandler) AddMessage(c *gin.Context) {
	author, ok := h.author(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AddMessageRequest
	if !h.bind(c, &req, "add message") {
		return
	}

	result, err := h.uc.Message.Execute(c.Request.Context(), usecases.AddMessageCommand{
		TicketID:   ticketID,
		Author:     author,
		Body:       req.Body,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Message added successfully")
}

// AssignTicket handles POST /api/tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AssignTicketRequest
	if !h.bind(c, &req, "assign ticket") {
		return
	}

	result, err := h.uc.Assign.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		TicketID:   ticketID,
		AssigneeID: req.UserID,
		AssignedBy: actor.UserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}

// CloseTicket handles POST /api/tickets/:id/close
func (h *TicketHandler) CloseTicket(c *gin.Context) {
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CloseTicketRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req, "close ticket") {
		return
	}

	result, err := h.uc.Close.Execute(c.Request.Context(), usecases.CloseTicketCommand{
		TicketID:         ticketID,
		ClosingNotes:     req.ClosingNotes,
		TimeSpentMinutes: req.TimeSpentMinutes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket closed successfully", result)
}

// ReopenTicket handles POST /api/tickets/:id/reopen
func (h *TicketHandler) ReopenTicket(c *gin.Context) {
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Reopen.Execute(c.Request.Context(), usecases.ReopenTicketCommand{TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket reopened successfully", result)
}

// LogTime handles POST /api/tickets/:id/time
func (h *TicketHandler) LogTime(c *gin.Context) {
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.LogTimeRequest
	if !h.bind(c, &req, "log time") {
		return
	}

	result, err := h.uc.LogTime.Execute(c.Request.Context(), usecases.LogTimeCommand{TicketID: ticketID, Minutes: req.Minutes})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Time logged successfully", result)
}

// DeleteTicket handles DELETE /api/tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	ticketID, err := utils.ParseIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), usecases.DeleteTicketCommand{TicketID: ticketID}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// author maps the authenticated actor to a message author and writes a 401
// when there is none.
func (h *TicketHandler) author(c *gin.Context) (domain.Author, bool) {
	actor, ok := middleware.GetActor(c)
	switch {
	case ok && actor.IsStaff():
		return domain.StaffAuthor(actor.UserID), true
	case ok && actor.IsClient():
		return domain.ClientAuthor(actor.ClientAccessID), true
	default:
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("not authenticated"))
		return domain.Author{}, false
	}
}

func (h *TicketHandler) bind(c *gin.Context, req any, op string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warnw("invalid request body for "+op, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}
