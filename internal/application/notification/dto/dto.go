package dto

import (
	"time"

	"github.com/corvid-crm/corvid/internal/domain/notification"
)

type NotificationDTO struct {
	ID             uint           `json:"id"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Body           string         `json:"body,omitempty"`
	Link           string         `json:"link,omitempty"`
	RelatedEventID *uint          `json:"related_event_id,omitempty"`
	RelatedTaskID  *uint          `json:"related_task_id,omitempty"`
	IsRead         bool           `json:"is_read"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []*NotificationDTO `json:"notifications"`
	Total         int64              `json:"total"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
}

type TogglesDTO struct {
	EventReminder bool `json:"event_reminder"`
	EventAssigned bool `json:"event_assigned"`
	TaskAssigned  bool `json:"task_assigned"`
	TaskDueSoon   bool `json:"task_due_soon"`
	TaskOverdue   bool `json:"task_overdue"`
	TicketReply   bool `json:"ticket_reply"`
}

type PreferenceDTO struct {
	UserID             uint       `json:"user_id"`
	EmailEnabled       bool       `json:"email_enabled"`
	BrowserEnabled     bool       `json:"browser_enabled"`
	InAppCenterEnabled bool       `json:"in_app_center_enabled"`
	Email              TogglesDTO `json:"email"`
	Browser            TogglesDTO `json:"browser"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TogglesPatchRequest is the partial form accepted by the preference update.
type TogglesPatchRequest struct {
	EventReminder *bool `json:"event_reminder"`
	EventAssigned *bool `json:"event_assigned"`
	TaskAssigned  *bool `json:"task_assigned"`
	TaskDueSoon   *bool `json:"task_due_soon"`
	TaskOverdue   *bool `json:"task_overdue"`
	TicketReply   *bool `json:"ticket_reply"`
}

type UpdatePreferencesRequest struct {
	EmailEnabled       *bool                `json:"email_enabled"`
	BrowserEnabled     *bool                `json:"browser_enabled"`
	InAppCenterEnabled *bool                `json:"in_app_center_enabled"`
	Email              *TogglesPatchRequest `json:"email"`
	Browser            *TogglesPatchRequest `json:"browser"`
}

type NotifyAssignmentRequest struct {
	Kind         string `json:"kind" binding:"required,oneof=event task"`
	EntityID     uint   `json:"entity_id" binding:"required"`
	RecipientIDs []uint `json:"recipient_ids" binding:"required,min=1"`

	// PreviousRecipientIDs is set on updates; only recipients not listed
	// here are notified.
	PreviousRecipientIDs []uint `json:"previous_recipient_ids"`
}

// CreateNotificationRequest posts a notice straight into one user's center.
type CreateNotificationRequest struct {
	UserID         uint           `json:"user_id" binding:"required"`
	Type           string         `json:"type" binding:"required"`
	Title          string         `json:"title" binding:"required"`
	Body           string         `json:"body"`
	Link           string         `json:"link"`
	RelatedEventID *uint          `json:"related_event_id"`
	RelatedTaskID  *uint          `json:"related_task_id"`
	Metadata       map[string]any `json:"metadata"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// RecipientOutcomeDTO reports what happened on each channel for one recipient.
type RecipientOutcomeDTO struct {
	UserID uint   `json:"user_id"`
	InApp  string `json:"in_app"`
	Email  string `json:"email"`
	Error  string `json:"error,omitempty"`
}

type NotifyAssignmentResponse struct {
	Kind       string                 `json:"kind"`
	EntityID   uint                   `json:"entity_id"`
	Recipients []*RecipientOutcomeDTO `json:"recipients"`
}

func ToNotificationDTO(n *notification.Notification) *NotificationDTO {
	if n == nil {
		return nil
	}
	return &NotificationDTO{
		ID:             n.ID(),
		Type:           n.Type().String(),
		Title:          n.Title(),
		Body:           n.Body(),
		Link:           n.Link(),
		RelatedEventID: n.RelatedEventID(),
		RelatedTaskID:  n.RelatedTaskID(),
		IsRead:         n.IsRead(),
		ReadAt:         n.ReadAt(),
		Metadata:       n.Metadata(),
		CreatedAt:      n.CreatedAt(),
	}
}

func ToNotificationDTOs(list []*notification.Notification) []*NotificationDTO {
	out := make([]*NotificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, ToNotificationDTO(n))
	}
	return out
}

func toTogglesDTO(t notification.Toggles) TogglesDTO {
	return TogglesDTO{
		EventReminder: t.EventReminder,
		EventAssigned: t.EventAssigned,
		TaskAssigned:  t.TaskAssigned,
		TaskDueSoon:   t.TaskDueSoon,
		TaskOverdue:   t.TaskOverdue,
		TicketReply:   t.TicketReply,
	}
}

func ToPreferenceDTO(p *notification.Preference) *PreferenceDTO {
	if p == nil {
		return nil
	}
	return &PreferenceDTO{
		UserID:             p.UserID(),
		EmailEnabled:       p.EmailEnabled(),
		BrowserEnabled:     p.BrowserEnabled(),
		InAppCenterEnabled: p.InAppCenterEnabled(),
		Email:              toTogglesDTO(p.Email()),
		Browser:            toTogglesDTO(p.Browser()),
		UpdatedAt:          p.UpdatedAt(),
	}
}

func (r *TogglesPatchRequest) toPatch() notification.TogglesPatch {
	if r == nil {
		return notification.TogglesPatch{}
	}
	return notification.TogglesPatch{
		EventReminder: r.EventReminder,
		EventAssigned: r.EventAssigned,
		TaskAssigned:  r.TaskAssigned,
		TaskDueSoon:   r.TaskDueSoon,
		TaskOverdue:   r.TaskOverdue,
		TicketReply:   r.TicketReply,
	}
}

func (r *UpdatePreferencesRequest) ToPatch() notification.Patch {
	return notification.Patch{
		EmailEnabled:       r.EmailEnabled,
		BrowserEnabled:     r.BrowserEnabled,
		InAppCenterEnabled: r.InAppCenterEnabled,
		Email:              r.Email.toPatch(),
		Browser:            r.Browser.toPatch(),
	}
}
