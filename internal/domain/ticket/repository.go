package ticket

import "context"

type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	// Delete removes the ticket together with its activity log.
	Delete(ctx context.Context, ticketID uint) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	// CountByNumberPrefix counts tickets whose number starts with prefix.
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
	// LatestNumberByPrefix returns the highest number starting with prefix,
	// or "" when there is none.
	LatestNumberByPrefix(ctx context.Context, prefix string) (string, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	ListByTicketID(ctx context.Context, ticketID uint) ([]*Message, error)
	CountByTicketID(ctx context.Context, ticketID uint) (int64, error)
}

type ActivityRepository interface {
	Append(ctx context.Context, entry *ActivityEntry) error
	ListByTicketID(ctx context.Context, ticketID uint) ([]*ActivityEntry, error)
}
