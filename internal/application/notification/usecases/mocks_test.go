package usecases

import (
	"context"
	"time"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/domain/user"
)

type mockNotificationRepository struct {
	CreateFunc      func(ctx context.Context, n *notification.Notification) error
	GetByIDFunc     func(ctx context.Context, id uint) (*notification.Notification, error)
	ListByUserFunc  func(ctx context.Context, userID uint, filter notification.ListFilter) ([]*notification.Notification, int64, error)
	CountUnreadFunc func(ctx context.Context, userID uint) (int64, error)
	MarkReadFunc    func(ctx context.Context, id, userID uint, at time.Time) error
	MarkAllReadFunc func(ctx context.Context, userID uint, at time.Time) (int64, error)

	created []*notification.Notification
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, n)
	}
	m.created = append(m.created, n)
	return n.SetID(uint(len(m.created)))
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockNotificationRepository) ListByUser(ctx context.Context, userID uint, filter notification.ListFilter) ([]*notification.Notification, int64, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, filter)
	}
	return nil, 0, nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	if m.CountUnreadFunc != nil {
		return m.CountUnreadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id, userID uint, at time.Time) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, userID, at)
	}
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID, at)
	}
	return 0, nil
}

type mockPreferenceRepository struct {
	GetFunc  func(ctx context.Context, userID uint) (*notification.Preference, error)
	SaveFunc func(ctx context.Context, p *notification.Preference) error

	saved []*notification.Preference
}

func (m *mockPreferenceRepository) Get(ctx context.Context, userID uint) (*notification.Preference, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPreferenceRepository) Save(ctx context.Context, p *notification.Preference) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	m.saved = append(m.saved, p)
	return nil
}

type mockUserRepository struct {
	GetByIDFunc           func(ctx context.Context, id uint) (*user.User, error)
	ListActiveByRolesFunc func(ctx context.Context, roles []user.Role) ([]*user.User, error)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) ListActiveByRoles(ctx context.Context, roles []user.Role) ([]*user.User, error) {
	if m.ListActiveByRolesFunc != nil {
		return m.ListActiveByRolesFunc(ctx, roles)
	}
	return nil, nil
}

type mockEventRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*calendar.Event, error)
}

func (m *mockEventRepository) GetByID(ctx context.Context, id uint) (*calendar.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockTaskRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*task.Task, error)
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id uint) (*task.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTaskRepository) FindDueSoon(context.Context, time.Time, time.Duration, int) ([]*task.Task, error) {
	return nil, nil
}

func (m *mockTaskRepository) FindOverdue(context.Context, time.Time, int) ([]*task.Task, error) {
	return nil, nil
}

func (m *mockTaskRepository) ClaimDueSoon(context.Context, uint, time.Time) (bool, error) {
	return false, nil
}

func (m *mockTaskRepository) ClaimOverdue(context.Context, uint, time.Time) (bool, error) {
	return false, nil
}

// mockMailer records every recipient address per template. Fail makes the
// listed addresses fail.
type mockMailer struct {
	Fail map[string]error

	sent map[string][]string
}

func (m *mockMailer) record(kind, to string) error {
	if m.sent == nil {
		m.sent = map[string][]string{}
	}
	if err := m.Fail[to]; err != nil {
		return err
	}
	m.sent[kind] = append(m.sent[kind], to)
	return nil
}

func (m *mockMailer) SendEventReminder(_ context.Context, to string, _ notification.EventReminderMail) error {
	return m.record("event_reminder", to)
}

func (m *mockMailer) SendEventAssigned(_ context.Context, to string, _ notification.EventAssignedMail) error {
	return m.record("event_assigned", to)
}

func (m *mockMailer) SendTaskAssigned(_ context.Context, to string, _ notification.TaskMail) error {
	return m.record("task_assigned", to)
}

func (m *mockMailer) SendTaskDueSoon(_ context.Context, to string, _ notification.TaskMail) error {
	return m.record("task_due_soon", to)
}

func (m *mockMailer) SendTaskOverdue(_ context.Context, to string, _ notification.TaskMail) error {
	return m.record("task_overdue", to)
}

func (m *mockMailer) SendTicketReply(_ context.Context, to string, _ notification.TicketReplyMail) error {
	return m.record("ticket_reply", to)
}

func (m *mockMailer) SendNewTicketForAdmins(_ context.Context, to []string, _ notification.NewTicketMail) error {
	for _, addr := range to {
		if err := m.record("new_ticket", addr); err != nil {
			return err
		}
	}
	return nil
}

func staffUsers(users ...*user.User) *mockUserRepository {
	byID := make(map[uint]*user.User, len(users))
	for _, u := range users {
		byID[u.ID()] = u
	}
	return &mockUserRepository{
		GetByIDFunc: func(_ context.Context, id uint) (*user.User, error) {
			return byID[id], nil
		},
	}
}

func mustUser(id uint, email, name string, active bool) *user.User {
	u, err := user.ReconstructUser(id, email, name, user.RoleStaff, active)
	if err != nil {
		panic(err)
	}
	return u
}
