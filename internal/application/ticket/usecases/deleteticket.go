package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type DeleteTicketCommand struct {
	TicketID uint
}

type DeleteTicketUseCase struct {
	ticketRepo  ticket.TicketRepository
	messageRepo ticket.MessageRepository
	logger      logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo:  ticketRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// Execute deletes a ticket that has no conversation yet. Tickets with
// messages are kept for the record and must be closed instead.
func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID)

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return err
	}

	count, err := uc.messageRepo.CountByTicketID(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to count ticket messages", "ticket_id", t.ID(), "error", err)
		return errors.NewInternalError("failed to delete ticket")
	}
	if count > 0 {
		return errors.NewConflictError("ticket has messages; close it instead")
	}

	if err := uc.ticketRepo.Delete(ctx, t.ID()); err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", t.ID(), "error", err)
		return errors.NewInternalError("failed to delete ticket")
	}

	uc.logger.Infow("ticket deleted successfully", "ticket_id", t.ID(), "number", t.Number())
	return nil
}
