// Package scheduler runs the periodic sweeps using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

const (
	DefaultReminderInterval = time.Minute
	DefaultTaskInterval     = 5 * time.Minute
)

// BatchJob is one sweep. Each Execute call processes a batch and returns the
// number of items examined.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the single gocron scheduler of a process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterReminderSweep runs the due event reminder sweep every interval,
// starting immediately.
func (m *SchedulerManager) RegisterReminderSweep(job BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	return m.registerSweep("reminder-sweep", job, interval, "reminder", "calendar")
}

// RegisterTaskDeadlineSweep runs the task due-soon and overdue sweep every
// interval, starting immediately.
func (m *SchedulerManager) RegisterTaskDeadlineSweep(job BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTaskInterval
	}
	return m.registerSweep("task-deadline-sweep", job, interval, "task", "deadline")
}

func (m *SchedulerManager) registerSweep(name string, job BatchJob, interval time.Duration, tags ...string) error {
	if job == nil {
		return fmt.Errorf("job %s is nil", name)
	}
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.runSweep(ctx, name, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(tags...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered sweep job", "name", name, "interval", interval.String())
	return nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("sweep started", "name", name)

	startTime := time.Now()
	count, err := job.Execute(ctx)
	if err != nil {
		// graceful shutdown
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("sweep failed",
			"name", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("sweep completed",
			"name", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("sweep found nothing to do",
			"name", name,
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
