package usecases

import (
	"context"
	"fmt"

	notifusecases "github.com/corvid-crm/corvid/internal/application/notification/usecases"
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/errors"
	"github.com/corvid-crm/corvid/internal/shared/goroutine"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

const excerptRunes = 280

// TicketNotifier delivers ticket conversation notifications. Every failure
// is logged and swallowed; the message itself is already committed.
type TicketNotifier struct {
	accessRepo client.AccessRepository
	userRepo   user.Repository
	prefRepo   notification.PreferenceRepository
	deliverer  *notifusecases.Deliverer
	mailer     notification.Mailer
	logger     logger.Interface
}

func NewTicketNotifier(
	accessRepo client.AccessRepository,
	userRepo user.Repository,
	prefRepo notification.PreferenceRepository,
	deliverer *notifusecases.Deliverer,
	mailer notification.Mailer,
	logger logger.Interface,
) *TicketNotifier {
	return &TicketNotifier{
		accessRepo: accessRepo,
		userRepo:   userRepo,
		prefRepo:   prefRepo,
		deliverer:  deliverer,
		mailer:     mailer,
		logger:     logger,
	}
}

// NotifyClientOfReply sends the in-app notification to the client's portal
// user, if there is one, and the reply email to the access address while the
// access is active.
func (n *TicketNotifier) NotifyClientOfReply(ctx context.Context, t *ticket.Ticket, msg *ticket.Message) {
	defer goroutine.Recover(n.logger, "ticket-reply-notifier", "ticket_id", t.ID())

	access, err := n.accessRepo.GetByClientID(ctx, t.ClientID())
	if err != nil {
		n.logger.Warnw("failed to get client access for reply notification", "ticket_id", t.ID(), "error", err)
		return
	}
	if access == nil {
		n.logger.Warnw("ticket client has no access, reply not notified", "ticket_id", t.ID(), "client_id", t.ClientID())
		return
	}

	authorName := n.staffName(ctx, msg.Author())
	portalUserID := access.PortalUserID()

	if portalUserID != nil {
		ticketID := t.ID()
		n.deliverer.Deliver(ctx, notifusecases.Delivery{
			Draft: notification.Draft{
				UserID: *portalUserID,
				Type:   notification.TypeTicketReply,
				Title:  fmt.Sprintf("New reply on ticket %s", t.Number()),
				Body:   excerpt(msg.Body()),
				Link:   fmt.Sprintf("/portal/tickets/%d", ticketID),
				Metadata: map[string]any{
					"ticket_id":     ticketID,
					"ticket_number": t.Number(),
					"author":        authorName,
				},
			},
		})
	}

	if !access.IsActive() || access.Email() == "" {
		n.logger.Debugw("client access inactive or without email, reply email skipped", "client_access_id", access.ID())
		return
	}
	if portalUserID != nil {
		pref, err := notification.LoadPreference(ctx, n.prefRepo, *portalUserID)
		if err != nil {
			n.logger.Warnw("failed to load portal user preference", "user_id", *portalUserID, "error", err)
			return
		}
		if !pref.Allows(errors.ChannelEmail, notification.TypeTicketReply) {
			return
		}
	}

	err = n.mailer.SendTicketReply(ctx, access.Email(), notification.TicketReplyMail{
		ContactName:  access.ContactName(),
		TicketID:     t.ID(),
		TicketNumber: t.Number(),
		Subject:      t.Subject(),
		AuthorName:   authorName,
		Body:         msg.Body(),
	})
	if err != nil {
		n.logger.Warnw("failed to send ticket reply email",
			"ticket_id", t.ID(),
			"client_access_id", access.ID(),
			"error", err)
		return
	}
	n.logger.Infow("ticket reply email sent", "ticket_id", t.ID(), "client_access_id", access.ID())
}

// NotifyAdminsOfNewTicket emails every active admin and support manager.
func (n *TicketNotifier) NotifyAdminsOfNewTicket(ctx context.Context, t *ticket.Ticket, msg *ticket.Message) {
	defer goroutine.Recover(n.logger, "new-ticket-notifier", "ticket_id", t.ID())

	admins, err := n.userRepo.ListActiveByRoles(ctx, user.ElevatedRoles)
	if err != nil {
		n.logger.Warnw("failed to list ticket admins", "ticket_id", t.ID(), "error", err)
		return
	}
	to := make([]string, 0, len(admins))
	for _, a := range admins {
		if a.Email() != "" {
			to = append(to, a.Email())
		}
	}
	if len(to) == 0 {
		n.logger.Warnw("no active admins to notify of new ticket", "ticket_id", t.ID())
		return
	}

	clientName := fmt.Sprintf("Client #%d", t.ClientID())
	if access, err := n.accessRepo.GetByClientID(ctx, t.ClientID()); err == nil && access != nil && access.ContactName() != "" {
		clientName = access.ContactName()
	}

	err = n.mailer.SendNewTicketForAdmins(ctx, to, notification.NewTicketMail{
		TicketID:     t.ID(),
		TicketNumber: t.Number(),
		Subject:      t.Subject(),
		ClientName:   clientName,
		Body:         msg.Body(),
	})
	if err != nil {
		n.logger.Warnw("failed to send new ticket email", "ticket_id", t.ID(), "recipients", len(to), "error", err)
		return
	}
	n.logger.Infow("new ticket email sent", "ticket_id", t.ID(), "recipients", len(to))
}

func (n *TicketNotifier) staffName(ctx context.Context, author ticket.Author) string {
	userID, ok := author.StaffUserID()
	if !ok {
		return ""
	}
	u, err := n.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "Support team"
	}
	return u.DisplayName()
}

func excerpt(body string) string {
	r := []rune(body)
	if len(r) <= excerptRunes {
		return body
	}
	return string(r[:excerptRunes]) + "…"
}
