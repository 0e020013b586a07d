package http

import (
	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo         user.Repository
	accessRepo       client.AccessRepository
	ticketRepo       ticket.TicketRepository
	messageRepo      ticket.MessageRepository
	activityRepo     ticket.ActivityRepository
	eventRepo        calendar.EventRepository
	reminderRepo     calendar.ReminderRepository
	taskRepo         task.Repository
	notificationRepo notification.Repository
	preferenceRepo   notification.PreferenceRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		userRepo:         repository.NewUserRepository(db),
		accessRepo:       repository.NewClientAccessRepository(db),
		ticketRepo:       repository.NewTicketRepository(db),
		messageRepo:      repository.NewTicketMessageRepository(db),
		activityRepo:     repository.NewTicketActivityRepository(db),
		eventRepo:        repository.NewEventRepository(db),
		reminderRepo:     repository.NewReminderRepository(db),
		taskRepo:         repository.NewTaskRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		preferenceRepo:   repository.NewPreferenceRepository(db),
	}
}
