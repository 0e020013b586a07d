package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifusecases "github.com/corvid-crm/corvid/internal/application/notification/usecases"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type taskRow struct {
	title     string
	dueAt     *time.Time
	assignees []uint
	createdBy uint
	completed bool
	dueSoonAt *time.Time
	overdueAt *time.Time
}

type memTaskRepository struct {
	FindOverdueFunc func(ctx context.Context, now time.Time, limit int) ([]*task.Task, error)

	mu   sync.Mutex
	rows map[uint]*taskRow
}

func (m *memTaskRepository) toDomain(id uint, r *taskRow) *task.Task {
	return task.ReconstructTask(id, r.title, r.dueAt, r.assignees, r.createdBy, r.completed, r.dueSoonAt, r.overdueAt)
}

func (m *memTaskRepository) GetByID(_ context.Context, id uint) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		return m.toDomain(id, r), nil
	}
	return nil, nil
}

func (m *memTaskRepository) FindDueSoon(_ context.Context, now time.Time, window time.Duration, limit int) ([]*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*task.Task
	for id, r := range m.rows {
		if r.completed || r.dueAt == nil || r.dueSoonAt != nil {
			continue
		}
		if !r.dueAt.Before(now) && !r.dueAt.After(now.Add(window)) && len(out) < limit {
			out = append(out, m.toDomain(id, r))
		}
	}
	return out, nil
}

func (m *memTaskRepository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]*task.Task, error) {
	if m.FindOverdueFunc != nil {
		return m.FindOverdueFunc(ctx, now, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*task.Task
	for id, r := range m.rows {
		if r.completed || r.dueAt == nil || r.overdueAt != nil {
			continue
		}
		if r.dueAt.Before(now) && len(out) < limit {
			out = append(out, m.toDomain(id, r))
		}
	}
	return out, nil
}

func (m *memTaskRepository) ClaimDueSoon(_ context.Context, id uint, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rows[id]
	if r == nil || r.dueSoonAt != nil {
		return false, nil
	}
	r.dueSoonAt = &now
	return true, nil
}

func (m *memTaskRepository) ClaimOverdue(_ context.Context, id uint, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rows[id]
	if r == nil || r.overdueAt != nil {
		return false, nil
	}
	r.overdueAt = &now
	return true, nil
}

type memNotificationRepository struct {
	notification.Repository

	CreateFunc func(ctx context.Context, n *notification.Notification) error
	created    []*notification.Notification
}

func (m *memNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, n); err != nil {
			return err
		}
	}
	m.created = append(m.created, n)
	return n.SetID(uint(len(m.created)))
}

type memPreferenceRepository struct {
	prefs map[uint]*notification.Preference
}

func (m *memPreferenceRepository) Get(_ context.Context, userID uint) (*notification.Preference, error) {
	return m.prefs[userID], nil
}

func (m *memPreferenceRepository) Save(_ context.Context, p *notification.Preference) error {
	m.prefs[p.UserID()] = p
	return nil
}

type memUserRepository struct {
	users map[uint]*user.User
}

func (m *memUserRepository) GetByID(_ context.Context, id uint) (*user.User, error) {
	return m.users[id], nil
}

func (m *memUserRepository) ListActiveByRoles(context.Context, []user.Role) ([]*user.User, error) {
	return nil, nil
}

type mockMailer struct {
	notification.Mailer

	Fail    error
	dueSoon []string
	overdue []string
}

func (m *mockMailer) SendTaskDueSoon(_ context.Context, to string, _ notification.TaskMail) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.dueSoon = append(m.dueSoon, to)
	return nil
}

func (m *mockMailer) SendTaskOverdue(_ context.Context, to string, _ notification.TaskMail) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.overdue = append(m.overdue, to)
	return nil
}

type sweepFixture struct {
	tasks  *memTaskRepository
	notifs *memNotificationRepository
	prefs  *memPreferenceRepository
	mailer *mockMailer
	clock  *biztime.FixedClock
	uc     *RunTaskDeadlineSweepUseCase
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}
	users := map[uint]*user.User{}
	for id, name := range map[uint]string{2: "Ana", 4: "Ben", 6: "Cy"} {
		u, err := user.ReconstructUser(id, name+"@example.com", name, user.RoleStaff, true)
		require.NoError(t, err)
		users[id] = u
	}

	f := &sweepFixture{
		tasks: &memTaskRepository{rows: map[uint]*taskRow{
			1: {title: "Send quote", dueAt: at(2 * time.Hour), assignees: []uint{4, 6, 4}, createdBy: 2},
			2: {title: "File report", dueAt: at(-time.Hour), createdBy: 2},
			3: {title: "Next week", dueAt: at(7 * 24 * time.Hour), assignees: []uint{4}, createdBy: 2},
			4: {title: "Done already", dueAt: at(-time.Hour), assignees: []uint{4}, createdBy: 2, completed: true},
			5: {title: "Someday", createdBy: 2},
		}},
		notifs: &memNotificationRepository{},
		prefs:  &memPreferenceRepository{prefs: map[uint]*notification.Preference{}},
		mailer: &mockMailer{},
		clock:  biztime.NewFixedClock(now),
	}
	deliverer := notifusecases.NewDeliverer(f.notifs, f.prefs, &memUserRepository{users: users}, f.clock, logger.NewNopLogger())
	f.uc = NewRunTaskDeadlineSweepUseCase(f.tasks, deliverer, f.mailer, f.clock, logger.NewNopLogger(), 0)
	return f
}

func (f *sweepFixture) notified(kind notification.Type) map[uint][]uint {
	out := map[uint][]uint{}
	for _, n := range f.notifs.created {
		if n.Type() == kind {
			out[*n.RelatedTaskID()] = append(out[*n.RelatedTaskID()], n.UserID())
		}
	}
	return out
}

func TestTaskDeadlineSweep_NotifiesEachStageOnce(t *testing.T) {
	f := newSweepFixture(t)

	n, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, map[uint][]uint{1: {4, 6}}, f.notified(notification.TypeTaskDueSoon))
	assert.Equal(t, map[uint][]uint{2: {2}}, f.notified(notification.TypeTaskOverdue))
	assert.ElementsMatch(t, []string{"Ben@example.com", "Cy@example.com"}, f.mailer.dueSoon)
	assert.Equal(t, []string{"Ana@example.com"}, f.mailer.overdue)

	for _, c := range f.notifs.created {
		assert.Equal(t, "/tasks/"+map[notification.Type]string{
			notification.TypeTaskDueSoon: "1",
			notification.TypeTaskOverdue: "2",
		}[c.Type()], c.Link())
	}

	n, err = f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, f.notifs.created, 3)
}

func TestTaskDeadlineSweep_DueSoonThenOverdue(t *testing.T) {
	f := newSweepFixture(t)

	_, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	f.clock.Advance(3 * time.Hour)
	n, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, map[uint][]uint{1: {4, 6}, 2: {2}}, f.notified(notification.TypeTaskOverdue))
}

func TestTaskDeadlineSweep_ClaimedTaskIsSkipped(t *testing.T) {
	f := newSweepFixture(t)
	won, err := f.tasks.ClaimOverdue(context.Background(), 2, now)
	require.NoError(t, err)
	require.True(t, won)

	// the overdue query ran before the other instance claimed
	stale := f.tasks.toDomain(2, f.tasks.rows[2])
	f.tasks.FindOverdueFunc = func(context.Context, time.Time, int) ([]*task.Task, error) {
		return []*task.Task{stale}, nil
	}

	_, err = f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.notified(notification.TypeTaskOverdue))
}

func TestTaskDeadlineSweep_FailuresAreIsolated(t *testing.T) {
	f := newSweepFixture(t)
	f.mailer.Fail = errors.New("smtp down")
	f.notifs.CreateFunc = func(_ context.Context, n *notification.Notification) error {
		if n.UserID() == 4 {
			return errors.New("insert failed")
		}
		return nil
	}

	n, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, map[uint][]uint{1: {6}}, f.notified(notification.TypeTaskDueSoon))
	assert.Equal(t, map[uint][]uint{2: {2}}, f.notified(notification.TypeTaskOverdue))
	// claims stand even though delivery partly failed
	assert.NotNil(t, f.tasks.rows[1].dueSoonAt)
	assert.NotNil(t, f.tasks.rows[2].overdueAt)
}

func TestTaskDeadlineSweep_HonorsPreferences(t *testing.T) {
	f := newSweepFixture(t)
	off := false
	pref := notification.DefaultPreference(6)
	pref.Apply(notification.Patch{
		Browser: notification.TogglesPatch{TaskDueSoon: &off},
		Email:   notification.TogglesPatch{TaskDueSoon: &off},
	}, now)
	f.prefs.prefs[6] = pref

	_, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[uint][]uint{1: {4}}, f.notified(notification.TypeTaskDueSoon))
	assert.Equal(t, []string{"Ben@example.com"}, f.mailer.dueSoon)
}

func TestTaskDeadlineSweep_QueryError(t *testing.T) {
	f := newSweepFixture(t)
	f.tasks.FindOverdueFunc = func(context.Context, time.Time, int) ([]*task.Task, error) {
		return nil, errors.New("db down")
	}

	_, err := f.uc.Execute(context.Background())
	assert.Error(t, err)
	assert.Empty(t, f.notifs.created)
}
