// Package models holds the gorm row types. Relations are managed by the
// repositories; no foreign keys or associations are declared here.
package models

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&ClientAccessModel{},
		&TicketModel{},
		&TicketMessageModel{},
		&TicketActivityModel{},
		&CalendarEventModel{},
		&EventReminderModel{},
		&TaskModel{},
		&NotificationModel{},
		&NotificationPreferenceModel{},
	}
}
