package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/db"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type CloseTicketCommand struct {
	TicketID     uint
	ClosingNotes string
	// TimeSpentMinutes replaces the ticket's counter; nil means 0.
	TimeSpentMinutes *int
}

type CloseTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	activityRepo ticket.ActivityRepository
	accessRepo   client.AccessRepository
	txMgr        db.Transactor
	clock        biztime.Clock
	logger       logger.Interface
}

func NewCloseTicketUseCase(
	ticketRepo ticket.TicketRepository,
	activityRepo ticket.ActivityRepository,
	accessRepo client.AccessRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		accessRepo:   accessRepo,
		txMgr:        txMgr,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing close ticket use case", "ticket_id", cmd.TicketID)

	minutes := 0
	if cmd.TimeSpentMinutes != nil {
		minutes = *cmd.TimeSpentMinutes
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}

	entry, err := t.Close(cmd.ClosingNotes, minutes, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := saveTransition(txCtx, uc.ticketRepo, uc.activityRepo, t, entry); err != nil {
			return err
		}
		return accrueSupportHours(txCtx, uc.accessRepo, t.ClientID(), minutes, uc.logger)
	})
	if err != nil {
		uc.logger.Errorw("failed to close ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to close ticket")
	}

	uc.logger.Infow("ticket closed successfully", "ticket_id", t.ID(), "time_spent_minutes", minutes)
	return dto.ToTicketDTO(t), nil
}
