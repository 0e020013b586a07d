package ticket

import (
	"context"

	"github.com/corvid-crm/corvid/internal/application/ticket/dto"
	"github.com/corvid-crm/corvid/internal/application/ticket/usecases"
)

// Use case interfaces for TicketHandler; they let tests substitute mocks.

type createTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketDTO, error)
}

type getTicketExecutor interface {
	Execute(ctx context.Context, query usecases.GetTicketQuery) (*dto.TicketDetailDTO, error)
}

type updateTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.UpdateTicketCommand) (*dto.TicketDTO, error)
}

type addMessageExecutor interface {
	Execute(ctx context.Context, cmd usecases.AddMessageCommand) (*usecases.AddMessageResult, error)
}

type assignTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketDTO, error)
}

type closeTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.CloseTicketCommand) (*dto.TicketDTO, error)
}

type reopenTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.ReopenTicketCommand) (*dto.TicketDTO, error)
}

type logTimeExecutor interface {
	Execute(ctx context.Context, cmd usecases.LogTimeCommand) (*dto.TicketDTO, error)
}

type deleteTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.DeleteTicketCommand) error
}

// UseCases bundles the executors a TicketHandler needs.
type UseCases struct {
	Create  createTicketExecutor
	Get     getTicketExecutor
	Update  updateTicketExecutor
	Message addMessageExecutor
	Assign  assignTicketExecutor
	Close   closeTicketExecutor
	Reopen  reopenTicketExecutor
	LogTime logTimeExecutor
	Delete  deleteTicketExecutor
}
