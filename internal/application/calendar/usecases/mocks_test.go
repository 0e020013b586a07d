package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/user"
)

type mockEventRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*calendar.Event, error)

	events map[uint]*calendar.Event
}

func (m *mockEventRepository) GetByID(ctx context.Context, id uint) (*calendar.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return m.events[id], nil
}

type reminderRow struct {
	id, eventID     uint
	kind            calendar.ReminderType
	scheduledAt     time.Time
	emailEnabled    bool
	emailSent       bool
	emailSentAt     *time.Time
	browserEnabled  bool
	browserSent     bool
	browserSentAt   *time.Time
	browserAttempts int
	createdAt       time.Time
}

func (row *reminderRow) toDomain() *calendar.EventReminder {
	return calendar.ReconstructEventReminder(row.id, row.eventID, row.kind, row.scheduledAt,
		row.emailEnabled, row.emailSent, row.emailSentAt,
		row.browserEnabled, row.browserSent, row.browserSentAt,
		row.browserAttempts, row.createdAt)
}

// memReminderRepository mirrors the compare-and-set semantics of the SQL
// repository.
type memReminderRepository struct {
	ReplaceForEventFunc func(ctx context.Context, eventID uint, r *calendar.EventReminder) error
	FindDueFunc         func(ctx context.Context, now time.Time, limit int) ([]*calendar.EventReminder, error)
	ReleaseBrowserFunc  func(ctx context.Context, id uint, maxAttempts int) (bool, error)

	mu     sync.Mutex
	nextID uint
	rows   map[uint]*reminderRow
}

func newMemReminderRepository() *memReminderRepository {
	return &memReminderRepository{rows: map[uint]*reminderRow{}}
}

func (m *memReminderRepository) ReplaceForEvent(ctx context.Context, eventID uint, r *calendar.EventReminder) error {
	if m.ReplaceForEventFunc != nil {
		return m.ReplaceForEventFunc(ctx, eventID, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.eventID == eventID {
			delete(m.rows, id)
		}
	}
	if r == nil {
		return nil
	}
	if r.EventID() != eventID {
		return fmt.Errorf("reminder belongs to event %d, not %d", r.EventID(), eventID)
	}
	m.nextID++
	r.SetID(m.nextID)
	m.rows[m.nextID] = &reminderRow{
		id:             m.nextID,
		eventID:        eventID,
		kind:           r.ReminderType(),
		scheduledAt:    r.ScheduledAt(),
		emailEnabled:   r.EmailEnabled(),
		browserEnabled: r.BrowserEnabled(),
		createdAt:      r.CreatedAt(),
	}
	return nil
}

func (m *memReminderRepository) DeleteByEventID(_ context.Context, eventID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.eventID == eventID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *memReminderRepository) ListByEventID(_ context.Context, eventID uint) ([]*calendar.EventReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*calendar.EventReminder
	for _, row := range m.rows {
		if row.eventID == eventID {
			out = append(out, row.toDomain())
		}
	}
	return out, nil
}

func (m *memReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*calendar.EventReminder, error) {
	if m.FindDueFunc != nil {
		return m.FindDueFunc(ctx, now, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*reminderRow
	for _, row := range m.rows {
		pending := (row.browserEnabled && !row.browserSent) || (row.emailEnabled && !row.emailSent)
		if pending && !row.scheduledAt.After(now) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].scheduledAt.Equal(rows[j].scheduledAt) {
			return rows[i].id < rows[j].id
		}
		return rows[i].scheduledAt.Before(rows[j].scheduledAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]*calendar.EventReminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (m *memReminderRepository) ClaimEmail(_ context.Context, id uint, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[id]
	if row == nil || row.emailSent {
		return false, nil
	}
	row.emailSent = true
	row.emailSentAt = &now
	return true, nil
}

func (m *memReminderRepository) ClaimBrowser(_ context.Context, id uint, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[id]
	if row == nil || row.browserSent {
		return false, nil
	}
	row.browserSent = true
	row.browserSentAt = &now
	return true, nil
}

func (m *memReminderRepository) ReleaseBrowser(ctx context.Context, id uint, maxAttempts int) (bool, error) {
	if m.ReleaseBrowserFunc != nil {
		return m.ReleaseBrowserFunc(ctx, id, maxAttempts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[id]
	if row == nil {
		return false, nil
	}
	row.browserAttempts++
	if row.browserAttempts >= maxAttempts {
		return false, nil
	}
	row.browserSent = false
	row.browserSentAt = nil
	return true, nil
}

func (m *memReminderRepository) only(eventID uint) *reminderRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.eventID == eventID {
			return row
		}
	}
	return nil
}

type mockNotificationRepository struct {
	CreateFunc func(ctx context.Context, n *notification.Notification) error

	mu      sync.Mutex
	created []*notification.Notification
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *mockPreferenceRepository) Save(context.Context, *notification.Preference) error {
	return fmt.Errorf("preferences are read-only during a sweep")
}

type mockUserRepository struct {
	users map[uint]*user.User
}

func (m *mockUserRepository) GetByID(_ context.Context, id uint) (*user.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) ListActiveByRoles(context.Context, []user.Role) ([]*user.User, error) {
	return nil, nil
}

type mockMailer struct {
	notification.Mailer

	SendEventReminderFunc func(ctx context.Context, to string, m notification.EventReminderMail) error

	mu        sync.Mutex
	attempts  int
	delivered []notification.EventReminderMail
}

func (m *mockMailer) SendEventReminder(ctx context.Context, to string, mail notification.EventReminderMail) error {
	m.mu.Lock()
	m.attempts++
	m.mu.Unlock()
	if m.SendEventReminderFunc != nil {
		if err := m.SendEventReminderFunc(ctx, to, mail); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.delivered = append(m.delivered, mail)
	m.mu.Unlock()
	return nil
}

type mockSweepLocker struct {
	TryAcquireFunc func(ctx context.Context, name string) (func(context.Context) error, bool, error)
}

func (m *mockSweepLocker) TryAcquire(ctx context.Context, name string) (func(context.Context) error, bool, error) {
	return m.TryAcquireFunc(ctx, name)
}
