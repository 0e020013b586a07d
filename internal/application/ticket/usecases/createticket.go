package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	vo "github.com/corvid-crm/corvid/internal/domain/ticket/valueobjects"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/db"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// maxNumberAttempts bounds the retries when two creations race for the same
// ticket number.
const maxNumberAttempts = 5

type CreateTicketCommand struct {
	ClientID       uint
	Subject        string
	Description    string
	Priority       string
	SupportType    string
	InitialMessage string
	// Author writes the initial message. A client author always opens the
	// ticket for its own client.
	Author ticket.Author
}

type CreateTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	activityRepo ticket.ActivityRepository
	accessRepo   client.AccessRepository
	addMessage   *AddMessageUseCase
	txMgr        db.Transactor
	clock        biztime.Clock
	logger       logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	activityRepo ticket.ActivityRepository,
	accessRepo client.AccessRepository,
	addMessage *AddMessageUseCase,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		accessRepo:   accessRepo,
		addMessage:   addMessage,
		txMgr:        txMgr,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case", "client_id", cmd.ClientID, "subject", cmd.Subject)

	clientID, err := uc.resolveClient(ctx, cmd)
	if err != nil {
		return nil, err
	}

	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	supportType, err := vo.NewSupportType(cmd.SupportType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if cmd.InitialMessage != "" && strings.TrimSpace(cmd.InitialMessage) == "" {
		return nil, errors.NewValidationError("message body is required")
	}

	now := uc.clock.Now()
	t, err := ticket.NewTicket(clientID, cmd.Subject, cmd.Description, priority, supportType, now)
	if err != nil {
		return nil, err
	}

	msg, prior, err := uc.persist(ctx, t, now, cmd)
	if err != nil {
		return nil, err
	}
	uc.logger.Infow("ticket created successfully", "ticket_id", t.ID(), "number", t.Number())

	if msg != nil {
		uc.addMessage.notify(ctx, t, msg, cmd.Author, prior)
	}

	return dto.ToTicketDTO(t), nil
}

func (uc *CreateTicketUseCase) resolveClient(ctx context.Context, cmd CreateTicketCommand) (uint, error) {
	accessID, isClient := cmd.Author.ClientAccessID()
	if !isClient {
		if cmd.ClientID == 0 {
			return 0, errors.NewValidationError("client is required")
		}
		return cmd.ClientID, nil
	}
	access, err := uc.accessRepo.GetByID(ctx, accessID)
	if err != nil {
		uc.logger.Errorw("failed to get client access", "client_access_id", accessID, "error", err)
		return 0, errors.NewInternalError("failed to create ticket")
	}
	if access == nil || !access.IsActive() {
		return 0, errors.NewForbiddenError("client access is not active")
	}
	if cmd.ClientID != 0 && cmd.ClientID != access.ClientID() {
		return 0, errors.NewForbiddenError("client cannot open tickets for another client")
	}
	return access.ClientID(), nil
}

// persist numbers and inserts t together with its created entry and the
// optional initial message, all in one transaction. The number is count+1
// for the year. A duplicate-key failure means the number is taken, either by
// a concurrent creation or because deleted tickets left count behind the
// highest issued sequence, so the next attempt moves past both.
func (uc *CreateTicketUseCase) persist(ctx context.Context, t *ticket.Ticket, now time.Time, cmd CreateTicketCommand) (*ticket.Message, int64, error) {
	year := biztime.YearOf(now)
	prefix := ticket.NumberPrefix(year)

	var (
		msg   *ticket.Message
		prior int64
		seq   int
	)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
			next, err := uc.nextSequence(txCtx, year, seq)
			if err != nil {
				return err
			}
			seq = next
			if err := t.SetNumber(ticket.FormatNumber(year, seq)); err != nil {
				return err
			}
			if err := uc.ticketRepo.Create(txCtx, t); err != nil {
				return err
			}
			if err := uc.activityRepo.Append(txCtx, t.CreatedEntry()); err != nil {
				return err
			}
			if cmd.InitialMessage == "" {
				return nil
			}
			msg, prior, err = uc.addMessage.record(txCtx, t, AddMessageCommand{
				TicketID: t.ID(),
				Author:   cmd.Author,
				Body:     cmd.InitialMessage,
			})
			return err
		})
		if err == nil {
			return msg, prior, nil
		}
		if errors.IsDuplicateError(err) {
			uc.logger.Warnw("ticket number taken, retrying", "number", t.Number(), "attempt", attempt+1)
			continue
		}
		if errors.IsAppError(err) {
			return nil, 0, err
		}
		uc.logger.Errorw("failed to create ticket", "error", err)
		return nil, 0, errors.NewInternalError("failed to create ticket")
	}

	uc.logger.Errorw("exhausted ticket number attempts", "prefix", prefix)
	return nil, 0, errors.NewConflictError("could not allocate a ticket number, please retry")
}

// nextSequence returns count+1 on the first attempt. After a collision on
// last it returns the larger of count+1, the highest issued sequence + 1 and
// last+1.
func (uc *CreateTicketUseCase) nextSequence(ctx context.Context, year, last int) (int, error) {
	prefix := ticket.NumberPrefix(year)
	count, err := uc.ticketRepo.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}
	seq := int(count) + 1
	if last == 0 {
		return seq, nil
	}

	latest, err := uc.ticketRepo.LatestNumberByPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if issued, ok := ticket.ParseSequence(latest, year); ok && issued >= seq {
		seq = issued + 1
	}
	if last >= seq {
		seq = last + 1
	}
	return seq, nil
}
