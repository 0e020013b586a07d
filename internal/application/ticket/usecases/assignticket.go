package usecases

import (
	"context"
	"fmt"

	notifusecases "github.com/corvid-crm/corvid/internal/application/notification/usecases"
	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/db"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

type AssignTicketCommand struct {
	TicketID   uint
	AssigneeID uint
	AssignedBy uint
}

type AssignTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	activityRepo ticket.ActivityRepository
	userRepo     user.Repository
	deliverer    *notifusecases.Deliverer
	txMgr        db.Transactor
	clock        biztime.Clock
	logger       logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	activityRepo ticket.ActivityRepository,
	userRepo user.Repository,
	deliverer *notifusecases.Deliverer,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		userRepo:     userRepo,
		deliverer:    deliverer,
		txMgr:        txMgr,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID,
		"assignee_id", cmd.AssigneeID,
		"assigned_by", cmd.AssignedBy)

	if cmd.AssigneeID == 0 {
		return nil, errors.NewValidationError("assignee is required")
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}

	assignee, err := uc.userRepo.GetByID(ctx, cmd.AssigneeID)
	if err != nil {
		uc.logger.Errorw("failed to get assignee", "user_id", cmd.AssigneeID, "error", err)
		return nil, errors.NewInternalError("failed to assign ticket")
	}
	if assignee == nil {
		return nil, errors.NewNotFoundError("user not found")
	}
	if !assignee.IsActive() {
		return nil, errors.NewValidationError("cannot assign ticket to an inactive user")
	}

	entry, err := t.Assign(assignee.ID(), assignee.DisplayName(), uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return saveTransition(txCtx, uc.ticketRepo, uc.activityRepo, t, entry)
	})
	if err != nil {
		uc.logger.Errorw("failed to assign ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to assign ticket")
	}

	uc.logger.Infow("ticket assigned successfully", "ticket_id", t.ID(), "assignee_id", assignee.ID())

	if assignee.ID() != cmd.AssignedBy {
		ticketID := t.ID()
		uc.deliverer.Deliver(ctx, notifusecases.Delivery{
			Draft: notification.Draft{
				UserID: assignee.ID(),
				Type:   notification.TypeTicketAssigned,
				Title:  fmt.Sprintf("Ticket %s assigned to you", t.Number()),
				Body:   t.Subject(),
				Link:   fmt.Sprintf("/support/tickets/%d", ticketID),
				Metadata: map[string]any{
					"ticket_id":     ticketID,
					"ticket_number": t.Number(),
				},
			},
		})
	}

	return dto.ToTicketDTO(t), nil
}
