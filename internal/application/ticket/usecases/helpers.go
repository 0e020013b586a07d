package usecases

import (
	"context"
	"fmt"

	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

func loadTicket(ctx context.Context, repo ticket.TicketRepository, ticketID uint, log logger.Interface) (*ticket.Ticket, error) {
	t, err := repo.GetByID(ctx, ticketID)
	if err != nil {
		log.Errorw("failed to get ticket", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("failed to get ticket")
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

// saveTransition persists the mutated ticket and its activity entry. It must
// run inside a transaction.
func saveTransition(ctx context.Context, repo ticket.TicketRepository, activity ticket.ActivityRepository, t *ticket.Ticket, entry *ticket.ActivityEntry) error {
	if err := repo.Update(ctx, t); err != nil {
		return err
	}
	return activity.Append(ctx, entry)
}

// accrueSupportHours bills minutes against a metered client's purchased
// hours. Standard clients and clients without an access row are untouched.
func accrueSupportHours(ctx context.Context, repo client.AccessRepository, clientID uint, minutes int, log logger.Interface) error {
	if minutes <= 0 {
		return nil
	}
	access, err := repo.GetByClientID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to get client access: %w", err)
	}
	if access == nil {
		log.Warnw("no client access for ticket client, support hours not recorded", "client_id", clientID)
		return nil
	}
	if !access.IsMetered() {
		return nil
	}
	hours := client.MinutesToHours(minutes)
	if err := repo.AddSupportHours(ctx, access.ID(), hours); err != nil {
		return err
	}
	log.Infow("support hours accrued", "client_access_id", access.ID(), "hours", hours)
	return nil
}

// authorizeClient checks that a client author may act on t.
func authorizeClient(ctx context.Context, repo client.AccessRepository, author ticket.Author, t *ticket.Ticket) error {
	accessID, ok := author.ClientAccessID()
	if !ok {
		return nil
	}
	access, err := repo.GetByID(ctx, accessID)
	if err != nil {
		return errors.NewInternalError("failed to get client access")
	}
	if access == nil || !access.IsActive() || access.ClientID() != t.ClientID() {
		return errors.NewForbiddenError("client cannot access this ticket")
	}
	return nil
}
