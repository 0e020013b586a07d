package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	notifusecases "github.com/corvid-crm/corvid/internal/application/notification/usecases"
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	vo "github.com/corvid-crm/corvid/internal/domain/ticket/valueobjects"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

var t0 = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

const (
	clientID       = uint(30)
	clientAccessID = uint(4)
	portalUserID   = uint(90)
)

type ticketFixture struct {
	clock      *biztime.FixedClock
	tickets    *mockTicketRepository
	messages   *mockMessageRepository
	activity   *mockActivityRepository
	accesses   *mockAccessRepository
	users      *mockUserRepository
	notifs     *mockNotificationRepository
	prefs      *mockPreferenceRepository
	mailer     *mockMailer
	notifier   *mockReplyNotifier
	tx         *passThroughTx
	deliverer  *notifusecases.Deliverer
	addMessage *AddMessageUseCase
}

func newTicketFixture(t *testing.T, tier client.Tier, seed ...*ticket.Ticket) *ticketFixture {
	t.Helper()
	access, err := client.ReconstructAccess(clientAccessID, clientID, "Grace Hopper", "grace@acme.test", tier, true, 2.0, ptr(portalUserID))
	require.NoError(t, err)

	f := &ticketFixture{
		clock:    biztime.NewFixedClock(t0),
		tickets:  newMockTicketRepository(seed...),
		messages: &mockMessageRepository{},
		activity: &mockActivityRepository{},
		accesses: newMockAccessRepository(access),
		users: &mockUserRepository{users: []*user.User{
			mustUser(t, 7, "dana@corvid.test", "Dana", user.RoleSupportAgent, true),
			mustUser(t, 8, "ivan@corvid.test", "Ivan", user.RoleSupportAgent, false),
			mustUser(t, 1, "admin@corvid.test", "Ada", user.RoleAdmin, true),
			mustUser(t, 2, "lead@corvid.test", "Lee", user.RoleSupportManager, true),
			mustUser(t, 3, "", "No Mail", user.RoleAdmin, true),
		}},
		notifs:   &mockNotificationRepository{},
		prefs:    &mockPreferenceRepository{},
		mailer:   &mockMailer{},
		notifier: &mockReplyNotifier{},
		tx:       &passThroughTx{},
	}
	lg := logger.NewNopLogger()
	f.deliverer = notifusecases.NewDeliverer(f.notifs, f.prefs, f.users, f.clock, lg)
	f.addMessage = NewAddMessageUseCase(f.tickets, f.messages, f.activity, f.accesses, f.notifier, f.tx, f.clock, lg)
	return f
}

func (f *ticketFixture) ticketNotifier() *TicketNotifier {
	return NewTicketNotifier(f.accesses, f.users, f.prefs, f.deliverer, f.mailer, logger.NewNopLogger())
}

func mustUser(t *testing.T, id uint, email, name string, role user.Role, active bool) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(id, email, name, role, active)
	require.NoError(t, err)
	return u
}

func seededTicket(t *testing.T, id uint, status vo.TicketStatus) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.ReconstructTicket(id, ticket.FormatNumber(2025, int(id)), clientID,
		"VPN drops every hour", "Since Monday", status, vo.PriorityHigh, vo.SupportTechnical,
		nil, 30, "", nil, t0.Add(-24*time.Hour), t0.Add(-24*time.Hour))
	require.NoError(t, err)
	return tk
}

func ptr[T any](v T) *T {
	return &v
}
