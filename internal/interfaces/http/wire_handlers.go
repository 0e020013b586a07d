package http

import (
	calendarHandlers "github.com/corvid-crm/corvid/internal/interfaces/http/handlers/calendar"
	notificationHandlers "github.com/corvid-crm/corvid/internal/interfaces/http/handlers/notification"
	ticketHandlers "github.com/corvid-crm/corvid/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	ticketHandler       *ticketHandlers.TicketHandler
	reminderHandler     *calendarHandlers.ReminderHandler
	notificationHandler *notificationHandlers.NotificationHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs

	c.hdlrs = &allHandlers{
		ticketHandler: ticketHandlers.NewTicketHandler(ticketHandlers.UseCases{
			Create:  ucs.createTicketUC,
			Get:     ucs.getTicketUC,
			Update:  ucs.updateTicketUC,
			Message: ucs.addMessageUC,
			Assign:  ucs.assignTicketUC,
			Close:   ucs.closeTicketUC,
			Reopen:  ucs.reopenTicketUC,
			LogTime: ucs.logTimeUC,
			Delete:  ucs.deleteTicketUC,
		}, c.log),
		reminderHandler: calendarHandlers.NewReminderHandler(
			ucs.upsertReminderUC, ucs.cancelRemindersUC, ucs.reminderSweepUC, c.log,
		),
		notificationHandler: notificationHandlers.NewNotificationHandler(notificationHandlers.UseCases{
			List:              ucs.listNotificationsUC,
			UnreadCount:       ucs.unreadCountUC,
			MarkRead:          ucs.markReadUC,
			MarkAllRead:       ucs.markAllReadUC,
			GetPreferences:    ucs.getPreferencesUC,
			UpdatePreferences: ucs.updatePreferencesUC,
			NotifyAssignment:  ucs.notifyAssignmentUC,
			Create:            ucs.createNotificationUC,
		}, c.log),
	}
}
