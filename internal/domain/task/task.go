// Package task is the read model of to-do items whose deadlines produce
// due-soon and overdue notifications.
package task

import (
	"context"
	"time"
)

// DueSoonWindow is how far ahead of its deadline a task counts as due soon.
const DueSoonWindow = 24 * time.Hour

type Task struct {
	id                uint
	title             string
	dueAt             *time.Time
	assigneeIDs       []uint
	createdBy         uint
	completed         bool
	dueSoonNotifiedAt *time.Time
	overdueNotifiedAt *time.Time
}

func ReconstructTask(
	id uint,
	title string,
	dueAt *time.Time,
	assigneeIDs []uint,
	createdBy uint,
	completed bool,
	dueSoonNotifiedAt, overdueNotifiedAt *time.Time,
) *Task {
	return &Task{
		id:                id,
		title:             title,
		dueAt:             dueAt,
		assigneeIDs:       assigneeIDs,
		createdBy:         createdBy,
		completed:         completed,
		dueSoonNotifiedAt: dueSoonNotifiedAt,
		overdueNotifiedAt: overdueNotifiedAt,
	}
}

func (t *Task) ID() uint {
	return t.id
}

func (t *Task) Title() string {
	return t.title
}

func (t *Task) DueAt() *time.Time {
	return t.dueAt
}

func (t *Task) AssigneeIDs() []uint {
	out := make([]uint, len(t.assigneeIDs))
	copy(out, t.assigneeIDs)
	return out
}

func (t *Task) CreatedBy() uint {
	return t.createdBy
}

func (t *Task) IsCompleted() bool {
	return t.completed
}

func (t *Task) DueSoonNotifiedAt() *time.Time {
	return t.dueSoonNotifiedAt
}

func (t *Task) OverdueNotifiedAt() *time.Time {
	return t.overdueNotifiedAt
}

// Recipients are the assignees, or the creator when the task is unassigned.
func (t *Task) Recipients() []uint {
	if len(t.assigneeIDs) > 0 {
		return t.AssigneeIDs()
	}
	return []uint{t.createdBy}
}

// IsOverdue reports whether an open task's deadline has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.completed && t.dueAt != nil && t.dueAt.Before(now)
}

// IsDueSoon reports whether an open task is due within DueSoonWindow.
func (t *Task) IsDueSoon(now time.Time) bool {
	if t.completed || t.dueAt == nil || t.dueAt.Before(now) {
		return false
	}
	return !t.dueAt.After(now.Add(DueSoonWindow))
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Task, error)
	// FindDueSoon lists open tasks due in [now, now+window] not yet notified.
	FindDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]*Task, error)
	// FindOverdue lists open tasks due before now not yet notified overdue.
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]*Task, error)
	// ClaimDueSoon stamps dueSoonNotifiedAt if unset and reports whether this
	// caller did so.
	ClaimDueSoon(ctx context.Context, id uint, now time.Time) (bool, error)
	// ClaimOverdue stamps overdueNotifiedAt if unset and reports whether this
	// caller did so.
	ClaimOverdue(ctx context.Context, id uint, now time.Time) (bool, error)
}
