package usecases

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	vo "github.com/corvid-crm/corvid/internal/domain/ticket/valueobjects"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/db"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type UpdateTicketCommand struct {
	TicketID    uint
	Subject     *string
	Description *string
	Priority    *string
	SupportType *string
}

type UpdateTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	activityRepo ticket.ActivityRepository
	txMgr        db.Transactor
	clock        biztime.Clock
	logger       logger.Interface
}

func NewUpdateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	activityRepo ticket.ActivityRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		txMgr:        txMgr,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket use case", "ticket_id", cmd.TicketID)

	changes := ticket.Changes{
		Subject:     cmd.Subject,
		Description: cmd.Description,
	}
	if cmd.Priority != nil {
		p := vo.Priority(*cmd.Priority)
		if !p.IsValid() {
			return nil, errors.NewValidationError("invalid priority", *cmd.Priority)
		}
		changes.Priority = &p
	}
	if cmd.SupportType != nil {
		st := vo.SupportType(*cmd.SupportType)
		if !st.IsValid() {
			return nil, errors.NewValidationError("invalid support type", *cmd.SupportType)
		}
		changes.SupportType = &st
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}

	entry, err := t.Update(changes, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if entry == nil {
		uc.logger.Debugw("ticket update changed nothing", "ticket_id", t.ID())
		return dto.ToTicketDTO(t), nil
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return saveTransition(txCtx, uc.ticketRepo, uc.activityRepo, t, entry)
	})
	if err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update ticket")
	}

	uc.logger.Infow("ticket updated successfully", "ticket_id", t.ID(), "changes", entry.Detail())
	return dto.ToTicketDTO(t), nil
}
