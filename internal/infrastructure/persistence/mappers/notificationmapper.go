package mappers

import (
	"gorm.io/datatypes"

	"github.com/corvid-crm/corvid/internal/domain/notification"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
)

func NotificationToModel(n *notification.Notification) *models.NotificationModel {
	var meta datatypes.JSONMap
	if md := n.Metadata(); len(md) > 0 {
		meta = datatypes.JSONMap(md)
	}
	return &models.NotificationModel{
		ID:             n.ID(),
		UserID:         n.UserID(),
		Type:           n.Type().String(),
		Title:          n.Title(),
		Body:           n.Body(),
		Link:           n.Link(),
		RelatedEventID: n.RelatedEventID(),
		RelatedTaskID:  n.RelatedTaskID(),
		IsRead:         n.IsRead(),
		ReadAt:         n.ReadAt(),
		Metadata:       meta,
		CreatedAt:      n.CreatedAt().UTC(),
	}
}

func NotificationToDomain(model *models.NotificationModel) *notification.Notification {
	return notification.ReconstructNotification(
		model.ID,
		model.UserID,
		notification.Type(model.Type),
		model.Title,
		model.Body,
		model.Link,
		model.RelatedEventID,
		model.RelatedTaskID,
		model.IsRead,
		utcPtr(model.ReadAt),
		map[string]any(model.Metadata),
		model.CreatedAt.UTC(),
	)
}

func PreferenceToModel(p *notification.Preference) *models.NotificationPreferenceModel {
	email, browser := p.Email(), p.Browser()
	return &models.NotificationPreferenceModel{
		UserID:               p.UserID(),
		EmailEnabled:         p.EmailEnabled(),
		BrowserEnabled:       p.BrowserEnabled(),
		InAppCenterEnabled:   p.InAppCenterEnabled(),
		EmailEventReminder:   email.EventReminder,
		EmailEventAssigned:   email.EventAssigned,
		EmailTaskAssigned:    email.TaskAssigned,
		EmailTaskDueSoon:     email.TaskDueSoon,
		EmailTaskOverdue:     email.TaskOverdue,
		EmailTicketReply:     email.TicketReply,
		BrowserEventReminder: browser.EventReminder,
		BrowserEventAssigned: browser.EventAssigned,
		BrowserTaskAssigned:  browser.TaskAssigned,
		BrowserTaskDueSoon:   browser.TaskDueSoon,
		BrowserTaskOverdue:   browser.TaskOverdue,
		BrowserTicketReply:   browser.TicketReply,
		UpdatedAt:            p.UpdatedAt().UTC(),
	}
}

func PreferenceToDomain(model *models.NotificationPreferenceModel) *notification.Preference {
	return notification.ReconstructPreference(
		model.UserID,
		model.EmailEnabled,
		model.BrowserEnabled,
		model.InAppCenterEnabled,
		notification.Toggles{
			EventReminder: model.EmailEventReminder,
			EventAssigned: model.EmailEventAssigned,
			TaskAssigned:  model.EmailTaskAssigned,
			TaskDueSoon:   model.EmailTaskDueSoon,
			TaskOverdue:   model.EmailTaskOverdue,
			TicketReply:   model.EmailTicketReply,
		},
		notification.Toggles{
			EventReminder: model.BrowserEventReminder,
			EventAssigned: model.BrowserEventAssigned,
			TaskAssigned:  model.BrowserTaskAssigned,
			TaskDueSoon:   model.BrowserTaskDueSoon,
			TaskOverdue:   model.BrowserTaskOverdue,
			TicketReply:   model.BrowserTicketReply,
		},
		model.UpdatedAt.UTC(),
	)
}
