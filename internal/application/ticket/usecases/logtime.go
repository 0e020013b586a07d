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

type LogTimeCommand struct {
	TicketID uint
	Minutes  int
}

type LogTimeUseCase struct {
	ticketRepo   ticket.TicketRepository
	activityRepo ticket.ActivityRepository
	accessRepo   client.AccessRepository
	txMgr        db.Transactor
	clock        biztime.Clock
	logger       logger.Interface
}

func NewLogTimeUseCase(
	ticketRepo ticket.TicketRepository,
	activityRepo ticket.ActivityRepository,
	accessRepo client.AccessRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *LogTimeUseCase {
	return &LogTimeUseCase{
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		accessRepo:   accessRepo,
		txMgr:        txMgr,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *LogTimeUseCase) Execute(ctx context.Context, cmd LogTimeCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing log time use case", "ticket_id", cmd.TicketID, "minutes", cmd.Minutes)

	if cmd.Minutes <= 0 {
		return nil, errors.NewValidationError("minutes must be a positive number")
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}

	entry, err := t.LogTime(cmd.Minutes, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := saveTransition(txCtx, uc.ticketRepo, uc.activityRepo, t, entry); err != nil {
			return err
		}
		return accrueSupportHours(txCtx, uc.accessRepo, t.ClientID(), cmd.Minutes, uc.logger)
	})
	if err != nil {
		uc.logger.Errorw("failed to log time", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to log time")
	}

	uc.logger.Infow("time logged successfully", "ticket_id", t.ID(), "total_minutes", t.TimeSpentMinutes())
	return dto.ToTicketDTO(t), nil
}
