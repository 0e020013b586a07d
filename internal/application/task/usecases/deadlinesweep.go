package usecases

import (
	"context"
	"fmt"
	"time"

	notifusecases "github.com/corvid-crm/corvid/internal/application/notification/usecases"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/goroutine"
	"github.com/corvid-crm/corvid/internal/shared/logger"
	"github.com/corvid-crm/corvid/internal/shared/utils/setutil"
)

const DefaultSweepBatchSize = 200

// RunTaskDeadlineSweepUseCase sends due-soon and overdue notifications. A
// task is claimed for a stage before anyone is notified, so each stage goes
// out at most once.
type RunTaskDeadlineSweepUseCase struct {
	taskRepo  task.Repository
	deliverer *notifusecases.Deliverer
	mailer    notification.Mailer
	clock     biztime.Clock
	logger    logger.Interface
	batchSize int
}

func NewRunTaskDeadlineSweepUseCase(
	taskRepo task.Repository,
	deliverer *notifusecases.Deliverer,
	mailer notification.Mailer,
	clock biztime.Clock,
	logger logger.Interface,
	batchSize int,
) *RunTaskDeadlineSweepUseCase {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &RunTaskDeadlineSweepUseCase{
		taskRepo:  taskRepo,
		deliverer: deliverer,
		mailer:    mailer,
		clock:     clock,
		logger:    logger,
		batchSize: batchSize,
	}
}

type deadlineStage struct {
	name  string
	kind  notification.Type
	claim func(ctx context.Context, id uint, now time.Time) (bool, error)
	send  func(ctx context.Context, to string, m notification.TaskMail) error
	title func(t *task.Task) string
}

// Execute runs one sweep and returns the number of tasks examined.
func (uc *RunTaskDeadlineSweepUseCase) Execute(ctx context.Context) (int, error) {
	now := uc.clock.Now()

	overdue, err := uc.taskRepo.FindOverdue(ctx, now, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to find overdue tasks", "error", err)
		return 0, fmt.Errorf("failed to find overdue tasks: %w", err)
	}
	dueSoon, err := uc.taskRepo.FindDueSoon(ctx, now, task.DueSoonWindow, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to find tasks due soon", "error", err)
		return 0, fmt.Errorf("failed to find tasks due soon: %w", err)
	}

	examined := len(overdue) + len(dueSoon)
	if examined == 0 {
		return 0, nil
	}
	uc.logger.Infow("sweeping task deadlines", "overdue", len(overdue), "due_soon", len(dueSoon), "now", now)

	overdueStage := deadlineStage{
		name:  "overdue",
		kind:  notification.TypeTaskOverdue,
		claim: uc.taskRepo.ClaimOverdue,
		send:  uc.mailer.SendTaskOverdue,
		title: func(t *task.Task) string { return "Task overdue: " + t.Title() },
	}
	dueSoonStage := deadlineStage{
		name:  "due_soon",
		kind:  notification.TypeTaskDueSoon,
		claim: uc.taskRepo.ClaimDueSoon,
		send:  uc.mailer.SendTaskDueSoon,
		title: func(t *task.Task) string { return "Task due soon: " + t.Title() },
	}

	for _, t := range overdue {
		if ctx.Err() != nil {
			return examined, nil
		}
		uc.process(ctx, t, overdueStage, now)
	}
	for _, t := range dueSoon {
		if ctx.Err() != nil {
			return examined, nil
		}
		uc.process(ctx, t, dueSoonStage, now)
	}
	return examined, nil
}

func (uc *RunTaskDeadlineSweepUseCase) process(ctx context.Context, t *task.Task, stage deadlineStage, now time.Time) {
	defer goroutine.Recover(uc.logger, "task-deadline-sweep", "task_id", t.ID(), "stage", stage.name)

	won, err := stage.claim(ctx, t.ID(), now)
	if err != nil {
		uc.logger.Errorw("failed to claim task deadline", "task_id", t.ID(), "stage", stage.name, "error", err)
		return
	}
	if !won {
		return
	}

	taskID := t.ID()
	for _, userID := range setutil.Unique(t.Recipients()) {
		out := uc.deliverer.Deliver(ctx, notifusecases.Delivery{
			Draft: notification.Draft{
				UserID:        userID,
				Type:          stage.kind,
				Title:         stage.title(t),
				Body:          dueLine(t),
				Link:          fmt.Sprintf("/tasks/%d", taskID),
				RelatedTaskID: &taskID,
			},
			Email: func(ctx context.Context, to string, recipient *user.User) error {
				return stage.send(ctx, to, notification.TaskMail{
					RecipientName: recipient.DisplayName(),
					TaskID:        taskID,
					TaskTitle:     t.Title(),
					DueAt:         t.DueAt(),
				})
			},
		})
		if out.Err != nil {
			uc.logger.Warnw("task deadline notification incomplete",
				"task_id", taskID,
				"user_id", userID,
				"stage", stage.name,
				"in_app", out.InApp,
				"email", out.Email,
				"error", out.Err)
		}
	}
}

func dueLine(t *task.Task) string {
	if t.DueAt() == nil {
		return ""
	}
	return "Due " + t.DueAt().In(biztime.Location()).Format("Mon 02 Jan 15:04")
}
