package usecases

import (
	"context"
	"strings"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/db"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// ReplyNotifier tells the other side of a conversation about a new message.
// Implementations log their own failures.
type ReplyNotifier interface {
	NotifyClientOfReply(ctx context.Context, t *ticket.Ticket, msg *ticket.Message)
	NotifyAdminsOfNewTicket(ctx context.Context, t *ticket.Ticket, msg *ticket.Message)
}

type AddMessageCommand struct {
	TicketID   uint
	Author     ticket.Author
	Body       string
	IsInternal bool
}

type AddMessageResult struct {
	Message *dto.MessageDTO `json:"message"`
	Ticket  *dto.TicketDTO  `json:"ticket"`
}

type AddMessageUseCase struct {
	ticketRepo   ticket.TicketRepository
	messageRepo  ticket.MessageRepository
	activityRepo ticket.ActivityRepository
	accessRepo   client.AccessRepository
	notifier     ReplyNotifier
	txMgr        db.Transactor
	clock        biztime.Clock
	logger       logger.Interface
}

func NewAddMessageUseCase(
	ticketRepo ticket.TicketRepository,
	messageRepo ticket.MessageRepository,
	activityRepo ticket.ActivityRepository,
	accessRepo client.AccessRepository,
	notifier ReplyNotifier,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *AddMessageUseCase {
	return &AddMessageUseCase{
		ticketRepo:   ticketRepo,
		messageRepo:  messageRepo,
		activityRepo: activityRepo,
		accessRepo:   accessRepo,
		notifier:     notifier,
		txMgr:        txMgr,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *AddMessageUseCase) Execute(ctx context.Context, cmd AddMessageCommand) (*AddMessageResult, error) {
	uc.logger.Infow("executing add message use case",
		"ticket_id", cmd.TicketID,
		"author", cmd.Author.String(),
		"internal", cmd.IsInternal)

	if strings.TrimSpace(cmd.Body) == "" {
		return nil, errors.NewValidationError("message body is required")
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger)
	if err != nil {
		return nil, err
	}
	if err := authorizeClient(ctx, uc.accessRepo, cmd.Author, t); err != nil {
		return nil, err
	}

	msg, prior, err := uc.record(ctx, t, cmd)
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, t, msg, cmd.Author, prior)

	return &AddMessageResult{
		Message: dto.ToMessageDTO(msg),
		Ticket:  dto.ToTicketDTO(t),
	}, nil
}

// record applies the message to t and stores it with the transition. Called
// inside an outer transaction it joins that transaction.
func (uc *AddMessageUseCase) record(ctx context.Context, t *ticket.Ticket, cmd AddMessageCommand) (*ticket.Message, int64, error) {
	prior, err := uc.messageRepo.CountByTicketID(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to count ticket messages", "ticket_id", t.ID(), "error", err)
		return nil, 0, errors.NewInternalError("failed to add message")
	}

	msg, entry, err := t.AddMessage(cmd.Author, cmd.Body, cmd.IsInternal, uc.clock.Now())
	if err != nil {
		return nil, 0, err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.messageRepo.Create(txCtx, msg); err != nil {
			return err
		}
		return saveTransition(txCtx, uc.ticketRepo, uc.activityRepo, t, entry)
	})
	if err != nil {
		uc.logger.Errorw("failed to save ticket message", "ticket_id", t.ID(), "error", err)
		return nil, 0, errors.NewInternalError("failed to add message")
	}

	uc.logger.Infow("ticket message added",
		"ticket_id", t.ID(),
		"message_id", msg.ID(),
		"status", t.Status().String())
	return msg, prior, nil
}

// notify must run after the message is committed.
func (uc *AddMessageUseCase) notify(ctx context.Context, t *ticket.Ticket, msg *ticket.Message, author ticket.Author, prior int64) {
	if msg.IsClientFacing() {
		uc.notifier.NotifyClientOfReply(ctx, t, msg)
	}
	if author.IsClient() && prior == 0 {
		uc.notifier.NotifyAdminsOfNewTicket(ctx, t, msg)
	}
}
