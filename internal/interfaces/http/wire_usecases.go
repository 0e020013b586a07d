package http

import (
	calendarUsecases "github.com/corvid-crm/corvid/internal/application/calendar/usecases"
	notificationUsecases "github.com/corvid-crm/corvid/internal/application/notification/usecases"
	taskUsecases "github.com/corvid-crm/corvid/internal/application/task/usecases"
	ticketUsecases "github.com/corvid-crm/corvid/internal/application/ticket/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Ticket
	createTicketUC *ticketUsecases.CreateTicketUseCase
	getTicketUC    *ticketUsecases.GetTicketUseCase
	updateTicketUC *ticketUsecases.UpdateTicketUseCase
	addMessageUC   *ticketUsecases.AddMessageUseCase
	assignTicketUC *ticketUsecases.AssignTicketUseCase
	closeTicketUC  *ticketUsecases.CloseTicketUseCase
	reopenTicketUC *ticketUsecases.ReopenTicketUseCase
	logTimeUC      *ticketUsecases.LogTimeUseCase
	deleteTicketUC *ticketUsecases.DeleteTicketUseCase

	// Calendar
	upsertReminderUC  *calendarUsecases.UpsertReminderForEventUseCase
	cancelRemindersUC *calendarUsecases.CancelRemindersForEventUseCase
	reminderSweepUC   *calendarUsecases.RunDueReminderSweepUseCase

	// Task
	taskDeadlineSweepUC *taskUsecases.RunTaskDeadlineSweepUseCase

	// Notification
	listNotificationsUC  *notificationUsecases.ListNotificationsUseCase
	unreadCountUC        *notificationUsecases.GetUnreadCountUseCase
	markReadUC           *notificationUsecases.MarkNotificationAsReadUseCase
	markAllReadUC        *notificationUsecases.MarkAllAsReadUseCase
	getPreferencesUC     *notificationUsecases.GetPreferencesUseCase
	updatePreferencesUC  *notificationUsecases.UpdatePreferencesUseCase
	notifyAssignmentUC   *notificationUsecases.NotifyAssignmentUseCase
	createNotificationUC *notificationUsecases.CreateNotificationUseCase
}

func (c *Container) initUseCases() {
	r := c.repos
	ucs := &allUseCases{}

	deliverer := notificationUsecases.NewDeliverer(r.notificationRepo, r.preferenceRepo, r.userRepo, c.clock, c.log)
	ticketNotifier := ticketUsecases.NewTicketNotifier(r.accessRepo, r.userRepo, r.preferenceRepo, deliverer, c.mailer, c.log)

	ucs.addMessageUC = ticketUsecases.NewAddMessageUseCase(
		r.ticketRepo, r.messageRepo, r.activityRepo, r.accessRepo, ticketNotifier, c.txMgr, c.clock, c.log,
	)
	ucs.createTicketUC = ticketUsecases.NewCreateTicketUseCase(
		r.ticketRepo, r.activityRepo, r.accessRepo, ucs.addMessageUC, c.txMgr, c.clock, c.log,
	)
	ucs.getTicketUC = ticketUsecases.NewGetTicketUseCase(r.ticketRepo, r.messageRepo, r.activityRepo, r.accessRepo, c.log)
	ucs.updateTicketUC = ticketUsecases.NewUpdateTicketUseCase(r.ticketRepo, r.activityRepo, c.txMgr, c.clock, c.log)
	ucs.assignTicketUC = ticketUsecases.NewAssignTicketUseCase(
		r.ticketRepo, r.activityRepo, r.userRepo, deliverer, c.txMgr, c.clock, c.log,
	)
	ucs.closeTicketUC = ticketUsecases.NewCloseTicketUseCase(r.ticketRepo, r.activityRepo, r.accessRepo, c.txMgr, c.clock, c.log)
	ucs.reopenTicketUC = ticketUsecases.NewReopenTicketUseCase(r.ticketRepo, r.activityRepo, c.txMgr, c.clock, c.log)
	ucs.logTimeUC = ticketUsecases.NewLogTimeUseCase(r.ticketRepo, r.activityRepo, r.accessRepo, c.txMgr, c.clock, c.log)
	ucs.deleteTicketUC = ticketUsecases.NewDeleteTicketUseCase(r.ticketRepo, r.messageRepo, c.log)

	ucs.upsertReminderUC = calendarUsecases.NewUpsertReminderForEventUseCase(r.eventRepo, r.reminderRepo, c.clock, c.log)
	ucs.cancelRemindersUC = calendarUsecases.NewCancelRemindersForEventUseCase(r.reminderRepo, c.log)

	sweepOpts := calendarUsecases.SweepOptions{
		BatchSize:          c.cfg.Scheduler.SweepBatchSize,
		BrowserMaxAttempts: c.cfg.Scheduler.BrowserMaxAttempts,
	}
	if c.sweepLock != nil {
		sweepOpts.Locker = c.sweepLock
	}
	ucs.reminderSweepUC = calendarUsecases.NewRunDueReminderSweepUseCase(
		r.eventRepo, r.reminderRepo, r.notificationRepo, r.preferenceRepo, r.userRepo, c.mailer, c.clock, c.log, sweepOpts,
	)
	ucs.taskDeadlineSweepUC = taskUsecases.NewRunTaskDeadlineSweepUseCase(
		r.taskRepo, deliverer, c.mailer, c.clock, c.log, c.cfg.Scheduler.SweepBatchSize,
	)

	ucs.listNotificationsUC = notificationUsecases.NewListNotificationsUseCase(r.notificationRepo, c.log)
	ucs.unreadCountUC = notificationUsecases.NewGetUnreadCountUseCase(r.notificationRepo, c.log)
	ucs.markReadUC = notificationUsecases.NewMarkNotificationAsReadUseCase(r.notificationRepo, c.clock, c.log)
	ucs.markAllReadUC = notificationUsecases.NewMarkAllAsReadUseCase(r.notificationRepo, c.clock, c.log)
	ucs.getPreferencesUC = notificationUsecases.NewGetPreferencesUseCase(r.preferenceRepo, c.clock, c.log)
	ucs.updatePreferencesUC = notificationUsecases.NewUpdatePreferencesUseCase(r.preferenceRepo, c.clock, c.log)
	ucs.createNotificationUC = notificationUsecases.NewCreateNotificationUseCase(r.notificationRepo, c.clock, c.log)
	ucs.notifyAssignmentUC = notificationUsecases.NewNotifyAssignmentUseCase(
		r.eventRepo, r.taskRepo, r.userRepo, deliverer, c.mailer, c.log,
	)

	c.ucs = ucs
}
