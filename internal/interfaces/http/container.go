package http

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/infrastructure/auth"
	"github.com/corvid-crm/corvid/internal/infrastructure/cache"
	"github.com/corvid-crm/corvid/internal/infrastructure/config"
	"github.com/corvid-crm/corvid/internal/infrastructure/email"
	"github.com/corvid-crm/corvid/internal/infrastructure/scheduler"
	"github.com/corvid-crm/corvid/internal/interfaces/http/middleware"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/db"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases,
// handlers and the sweep scheduler of one process, and shuts them down
// together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	clock  biztime.Clock
	txMgr  db.Transactor
	mailer notification.Mailer

	// Optional; nil when redis is disabled or unreachable
	redis     *redis.Client
	sweepLock *cache.SweepLock

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	jwtSvc         *auth.JWTService
	authMiddleware *middleware.AuthMiddleware

	schedulerManager *scheduler.SchedulerManager
}

// Option customises a Container before wiring.
type Option func(*Container)

// WithClock replaces the system clock.
func WithClock(clock biztime.Clock) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithMailer replaces the configured mailer.
func WithMailer(mailer notification.Mailer) Option {
	return func(c *Container) {
		c.mailer = mailer
	}
}

// NewContainer wires every component on top of gormDB.
func NewContainer(ctx context.Context, gormDB *gorm.DB, cfg *config.Config, log logger.Interface, opts ...Option) *Container {
	c := &Container{
		engine: gin.New(),
		db:     gormDB,
		cfg:    cfg,
		log:    log,
		clock:  biztime.SystemClock(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.initInfrastructure(ctx)
	c.initUseCases()
	c.initHandlers()

	return c
}

func (c *Container) initInfrastructure(ctx context.Context) {
	c.txMgr = db.NewTransactionManager(c.db)
	c.repos = newRepositories(c.db)

	if c.mailer == nil {
		c.mailer = email.NewMailer(c.cfg.Email)
		if !c.cfg.Email.IsConfigured() {
			c.log.Warnw("smtp is not configured, email delivery disabled")
		}
	}

	if c.cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &c.cfg.Redis)
		if err != nil {
			c.log.Warnw("redis unavailable, sweeps run without a distributed lock",
				"address", c.cfg.Redis.GetAddr(),
				"error", err)
		} else {
			c.redis = client
			c.sweepLock = cache.NewSweepLock(client, c.cfg.Scheduler.SweepLockTTL)
			c.log.Infow("redis connection established", "address", c.cfg.Redis.GetAddr())
		}
	}

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer, c.cfg.Auth.JWT.AccessExpMinutes, c.clock)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
}

// Engine returns the gin engine; call SetupRoutes first.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// RunReminderSweep runs one due reminder sweep.
func (c *Container) RunReminderSweep(ctx context.Context) (int, error) {
	return c.ucs.reminderSweepUC.Execute(ctx)
}

// RunTaskDeadlineSweep runs one task due-soon and overdue sweep.
func (c *Container) RunTaskDeadlineSweep(ctx context.Context) (int, error) {
	return c.ucs.taskDeadlineSweepUC.Execute(ctx)
}

// StartScheduler registers both sweeps and starts the scheduler. A second
// call is a no-op while the scheduler runs.
func (c *Container) StartScheduler() error {
	if c.schedulerRunning() {
		return nil
	}
	m, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return err
	}
	if err := m.RegisterReminderSweep(c.ucs.reminderSweepUC, c.cfg.Scheduler.ReminderInterval); err != nil {
		return err
	}
	if err := m.RegisterTaskDeadlineSweep(c.ucs.taskDeadlineSweepUC, c.cfg.Scheduler.TaskInterval); err != nil {
		return err
	}
	m.Start()
	c.schedulerManager = m
	return nil
}

func (c *Container) schedulerRunning() bool {
	return c.schedulerManager != nil && c.schedulerManager.IsStarted()
}

// Shutdown stops the scheduler and closes redis. The database handle is
// owned by the caller.
func (c *Container) Shutdown() error {
	var errs []error
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
