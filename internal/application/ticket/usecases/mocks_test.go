package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/domain/user"
)

// mockTicketRepository keeps tickets in memory unless a Func overrides the
// call.
type mockTicketRepository struct {
	CreateFunc              func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc              func(ctx context.Context, t *ticket.Ticket) error
	DeleteFunc              func(ctx context.Context, ticketID uint) error
	GetByIDFunc             func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	CountByNumberPrefixFunc func(ctx context.Context, prefix string) (int64, error)

	tickets map[uint]*ticket.Ticket
	deleted []uint
	updates int
	lastID  uint
}

func newMockTicketRepository(seed ...*ticket.Ticket) *mockTicketRepository {
	m := &mockTicketRepository{tickets: map[uint]*ticket.Ticket{}}
	for _, t := range seed {
		m.tickets[t.ID()] = t
		m.lastID = max(m.lastID, t.ID())
	}
	return m
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	for _, existing := range m.tickets {
		if existing.Number() == t.Number() {
			return fmt.Errorf("failed to create ticket: UNIQUE constraint failed: tickets.number")
		}
	}
	if err := t.SetID(m.lastID + 1); err != nil {
		return err
	}
	m.lastID = t.ID()
	m.tickets[t.ID()] = t
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	m.updates++
	m.tickets[t.ID()] = t
	return nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, ticketID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ticketID)
	}
	delete(m.tickets, ticketID)
	m.deleted = append(m.deleted, ticketID)
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return m.tickets[ticketID], nil
}

func (m *mockTicketRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	if m.CountByNumberPrefixFunc != nil {
		return m.CountByNumberPrefixFunc(ctx, prefix)
	}
	var n int64
	for _, t := range m.tickets {
		if strings.HasPrefix(t.Number(), prefix) {
			n++
		}
	}
	return n, nil
}

func (m *mockTicketRepository) LatestNumberByPrefix(_ context.Context, prefix string) (string, error) {
	var latest string
	for _, t := range m.tickets {
		n := t.Number()
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		if len(n) > len(latest) || (len(n) == len(latest) && n > latest) {
			latest = n
		}
	}
	return latest, nil
}

type mockMessageRepository struct {
	CreateFunc func(ctx context.Context, msg *ticket.Message) error

	messages []*ticket.Message
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *ticket.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	m.messages = append(m.messages, msg)
	msg.SetID(uint(len(m.messages)))
	return nil
}

func (m *mockMessageRepository) ListByTicketID(_ context.Context, ticketID uint) ([]*ticket.Message, error) {
	var out []*ticket.Message
	for _, msg := range m.messages {
		if msg.TicketID() == ticketID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) CountByTicketID(ctx context.Context, ticketID uint) (int64, error) {
	list, _ := m.ListByTicketID(ctx, ticketID)
	return int64(len(list)), nil
}

type mockActivityRepository struct {
	entries []*ticket.ActivityEntry
}

func (m *mockActivityRepository) Append(_ context.Context, entry *ticket.ActivityEntry) error {
	m.entries = append(m.entries, entry)
	entry.SetID(uint(len(m.entries)))
	return nil
}

func (m *mockActivityRepository) ListByTicketID(_ context.Context, ticketID uint) ([]*ticket.ActivityEntry, error) {
	var out []*ticket.ActivityEntry
	for _, e := range m.entries {
		if e.TicketID() == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockActivityRepository) actions() []ticket.ActivityAction {
	out := make([]ticket.ActivityAction, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action())
	}
	return out
}

type mockAccessRepository struct {
	AddSupportHoursFunc func(ctx context.Context, id uint, hours float64) error

	accesses []*client.Access
	hours    map[uint]float64
}

func newMockAccessRepository(accesses ...*client.Access) *mockAccessRepository {
	m := &mockAccessRepository{accesses: accesses, hours: map[uint]float64{}}
	for _, a := range accesses {
		m.hours[a.ID()] = a.SupportHoursUsed()
	}
	return m
}

func (m *mockAccessRepository) GetByID(_ context.Context, id uint) (*client.Access, error) {
	for _, a := range m.accesses {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAccessRepository) GetByClientID(_ context.Context, clientID uint) (*client.Access, error) {
	for _, a := range m.accesses {
		if a.ClientID() == clientID {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAccessRepository) AddSupportHours(ctx context.Context, id uint, hours float64) error {
	if m.AddSupportHoursFunc != nil {
		return m.AddSupportHoursFunc(ctx, id, hours)
	}
	m.hours[id] += hours
	return nil
}

type mockUserRepository struct {
	users []*user.User
}

func (m *mockUserRepository) GetByID(_ context.Context, id uint) (*user.User, error) {
	for _, u := range m.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) ListActiveByRoles(_ context.Context, roles []user.Role) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if !u.IsActive() {
			continue
		}
		for _, r := range roles {
			if u.Role() == r {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

type mockNotificationRepository struct {
	created []*notification.Notification
}

func (m *mockNotificationRepository) Create(_ context.Context, n *notification.Notification) error {
	m.created = append(m.created, n)
	return n.SetID(uint(len(m.created)))
}

func (m *mockNotificationRepository) GetByID(context.Context, uint) (*notification.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepository) ListByUser(context.Context, uint, notification.ListFilter) ([]*notification.Notification, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationRepository) CountUnread(context.Context, uint) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepository) MarkRead(context.Context, uint, uint, time.Time) error {
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(context.Context, uint, time.Time) (int64, error) {
	return 0, nil
}

type mockPreferenceRepository struct {
	prefs map[uint]*notification.Preference
}

func (m *mockPreferenceRepository) Get(_ context.Context, userID uint) (*notification.Preference, error) {
	return m.prefs[userID], nil
}

func (m *mockPreferenceRepository) Save(_ context.Context, p *notification.Preference) error {
	if m.prefs == nil {
		m.prefs = map[uint]*notification.Preference{}
	}
	m.prefs[p.UserID()] = p
	return nil
}

type mockMailer struct {
	notification.Mailer

	FailReplies bool

	replies   []string
	replyMail []notification.TicketReplyMail
	admins    [][]string
}

func (m *mockMailer) SendTicketReply(_ context.Context, to string, mail notification.TicketReplyMail) error {
	if m.FailReplies {
		return fmt.Errorf("smtp: connection refused")
	}
	m.replies = append(m.replies, to)
	m.replyMail = append(m.replyMail, mail)
	return nil
}

func (m *mockMailer) SendNewTicketForAdmins(_ context.Context, to []string, _ notification.NewTicketMail) error {
	m.admins = append(m.admins, to)
	return nil
}

// mockReplyNotifier records which notifications AddMessage requested.
type mockReplyNotifier struct {
	clientReplies []uint
	newTickets    []uint
}

func (m *mockReplyNotifier) NotifyClientOfReply(_ context.Context, _ *ticket.Ticket, msg *ticket.Message) {
	m.clientReplies = append(m.clientReplies, msg.ID())
}

func (m *mockReplyNotifier) NotifyAdminsOfNewTicket(_ context.Context, t *ticket.Ticket, _ *ticket.Message) {
	m.newTickets = append(m.newTickets, t.ID())
}

// passThroughTx counts outermost transactions. Nested calls join the outer
// one, and an outer failure is counted as a rollback.
type passThroughTx struct {
	calls     int
	rollbacks int
	depth     int
}

func (p *passThroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.depth > 0 {
		return fn(ctx)
	}
	p.calls++
	p.depth++
	err := fn(ctx)
	p.depth--
	if err != nil {
		p.rollbacks++
	}
	return err
}

// inTransaction reports whether a transaction is open.
func (p *passThroughTx) inTransaction() bool {
	return p.depth > 0
}
