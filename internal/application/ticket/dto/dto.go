package dto

import (
	"time"

	"github.com/corvid-crm/corvid/internal/domain/ticket"
)

type TicketDTO struct {
	ID               uint       `json:"id"`
	Number           string     `json:"number"`
	ClientID         uint       `json:"client_id"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	SupportType      string     `json:"support_type"`
	AssigneeID       *uint      `json:"assignee_id"`
	TimeSpentMinutes int        `json:"time_spent_minutes"`
	ClosingNotes     string     `json:"closing_notes,omitempty"`
	ClosedAt         *time.Time `json:"closed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type MessageDTO struct {
	ID             uint      `json:"id"`
	AuthorType     string    `json:"author_type"`
	UserID         *uint     `json:"user_id,omitempty"`
	ClientAccessID *uint     `json:"client_access_id,omitempty"`
	Body           string    `json:"body"`
	IsInternal     bool      `json:"is_internal"`
	CreatedAt      time.Time `json:"created_at"`
}

type ActivityDTO struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketDetailDTO is the ticket detail view: the ticket, its conversation
// and its audit trail.
type TicketDetailDTO struct {
	Ticket   *TicketDTO     `json:"ticket"`
	Messages []*MessageDTO  `json:"messages"`
	Activity []*ActivityDTO `json:"activity"`
}

type CreateTicketRequest struct {
	ClientID       uint   `json:"client_id"`
	Subject        string `json:"subject" binding:"required,max=200"`
	Description    string `json:"description" binding:"max=10000"`
	Priority       string `json:"priority"`
	SupportType    string `json:"support_type"`
	InitialMessage string `json:"initial_message"`
}

type UpdateTicketRequest struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	SupportType *string `json:"support_type"`
}

type AddMessageRequest struct {
	Body       string `json:"body" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

type AssignTicketRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type CloseTicketRequest struct {
	ClosingNotes     string `json:"closing_notes"`
	TimeSpentMinutes *int   `json:"time_spent_minutes"`
}

type LogTimeRequest struct {
	Minutes int `json:"minutes"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:               t.ID(),
		Number:           t.Number(),
		ClientID:         t.ClientID(),
		Subject:          t.Subject(),
		Description:      t.Description(),
		Status:           t.Status().String(),
		Priority:         t.Priority().String(),
		SupportType:      t.SupportType().String(),
		AssigneeID:       t.AssigneeID(),
		TimeSpentMinutes: t.TimeSpentMinutes(),
		ClosingNotes:     t.ClosingNotes(),
		ClosedAt:         t.ClosedAt(),
		CreatedAt:        t.CreatedAt(),
		UpdatedAt:        t.UpdatedAt(),
	}
}

func ToMessageDTO(m *ticket.Message) *MessageDTO {
	userID, accessID := m.Author().Columns()
	return &MessageDTO{
		ID:             m.ID(),
		AuthorType:     string(m.Author().Kind()),
		UserID:         userID,
		ClientAccessID: accessID,
		Body:           m.Body(),
		IsInternal:     m.IsInternal(),
		CreatedAt:      m.CreatedAt(),
	}
}

// ToTicketDetailDTO drops internal notes unless includeInternal is set.
func ToTicketDetailDTO(t *ticket.Ticket, messages []*ticket.Message, activity []*ticket.ActivityEntry, includeInternal bool) *TicketDetailDTO {
	out := &TicketDetailDTO{
		Ticket:   ToTicketDTO(t),
		Messages: make([]*MessageDTO, 0, len(messages)),
		Activity: make([]*ActivityDTO, 0, len(activity)),
	}
	for _, m := range messages {
		if m.IsInternal() && !includeInternal {
			continue
		}
		out.Messages = append(out.Messages, ToMessageDTO(m))
	}
	for _, e := range activity {
		out.Activity = append(out.Activity, &ActivityDTO{
			ID:        e.ID(),
			Action:    e.Action().String(),
			Detail:    e.Detail(),
			CreatedAt: e.CreatedAt(),
		})
	}
	return out
}
