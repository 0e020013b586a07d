package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID uint
	Viewer   ticket.Author
}

type GetTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	messageRepo  ticket.MessageRepository
	activityRepo ticket.ActivityRepository
	accessRepo   client.AccessRepository
	logger       logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	activityRepo ticket.ActivityRepository,
	accessRepo client.AccessRepository,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:   ticketRepo,
		messageRepo:  messageRepo,
		activityRepo: activityRepo,
		accessRepo:   accessRepo,
		logger:       logger,
	}
}

// Execute returns the detail view. Clients see neither internal notes nor the
// activity log.
func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailDTO, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, query.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}
	if err := authorizeClient(ctx, uc.accessRepo, query.Viewer, t); err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListByTicketID(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list ticket messages", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to get ticket")
	}

	staff := query.Viewer.IsStaff()
	var activity []*ticket.ActivityEntry
	if staff {
		activity, err = uc.activityRepo.ListByTicketID(ctx, t.ID())
		if err != nil {
			uc.logger.Errorw("failed to list ticket activity", "ticket_id", t.ID(), "error", err)
			return nil, errors.NewInternalError("failed to get ticket")
		}
	}

	return dto.ToTicketDetailDTO(t, messages, activity, staff), nil
}
