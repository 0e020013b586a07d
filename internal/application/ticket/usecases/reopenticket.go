package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/db"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type ReopenTicketCommand struct {
	TicketID uint
}

type ReopenTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	activityRepo ticket.ActivityRepository
	txMgr        db.Transactor
	clock        biztime.Clock
	logger       logger.Interface
}

func NewReopenTicketUseCase(
	ticketRepo ticket.TicketRepository,
	activityRepo ticket.ActivityRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *ReopenTicketUseCase {
	return &ReopenTicketUseCase{
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		txMgr:        txMgr,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *ReopenTicketUseCase) Execute(ctx context.Context, cmd ReopenTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing reopen ticket use case", "ticket_id", cmd.TicketID)

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}

	entry := t.Reopen(uc.clock.Now())

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return saveTransition(txCtx, uc.ticketRepo, uc.activityRepo, t, entry)
	})
	if err != nil {
		uc.logger.Errorw("failed to reopen ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to reopen ticket")
	}

	uc.logger.Infow("ticket reopened successfully", "ticket_id", t.ID())
	return dto.ToTicketDTO(t), nil
}
