package mappers

import (
	"fmt"
	"time"

	"github.com/corvid-crm/corvid/internal/domain/ticket"
	vo "github.com/corvid-crm/corvid/internal/domain/ticket/valueobjects"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
)

// TicketMapper converts between the ticket aggregate, its messages and
// activity entries and their rows.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	MessageToModel(m *ticket.Message) *models.TicketMessageModel
	MessageToDomain(model *models.TicketMessageModel) (*ticket.Message, error)
	ActivityToModel(e *ticket.ActivityEntry) *models.TicketActivityModel
	ActivityToDomain(model *models.TicketActivityModel) *ticket.ActivityEntry
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
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
		ClosedAt:         toMilliPtr(t.ClosedAt()),
		CreatedAt:        t.CreatedAt().UnixMilli(),
		UpdatedAt:        t.UpdatedAt().UnixMilli(),
	}
	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}
	t, err := ticket.ReconstructTicket(
		model.ID,
		model.Number,
		model.ClientID,
		model.Subject,
		model.Description,
		vo.TicketStatus(model.Status),
		vo.Priority(model.Priority),
		vo.SupportType(model.SupportType),
		model.AssigneeID,
		model.TimeSpentMinutes,
		model.ClosingNotes,
		fromMilliPtr(model.ClosedAt),
		time.UnixMilli(model.CreatedAt).UTC(),
		time.UnixMilli(model.UpdatedAt).UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ticket %d: %w", model.ID, err)
	}
	return t, nil
}

func (m *TicketMapperImpl) MessageToModel(msg *ticket.Message) *models.TicketMessageModel {
	userID, accessID := msg.Author().Columns()
	return &models.TicketMessageModel{
		ID:             msg.ID(),
		TicketID:       msg.TicketID(),
		UserID:         userID,
		ClientAccessID: accessID,
		Body:           msg.Body(),
		IsInternal:     msg.IsInternal(),
		CreatedAt:      msg.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) MessageToDomain(model *models.TicketMessageModel) (*ticket.Message, error) {
	author, err := ticket.AuthorFromColumns(model.UserID, model.ClientAccessID)
	if err != nil {
		return nil, fmt.Errorf("message %d: %w", model.ID, err)
	}
	return ticket.ReconstructMessage(
		model.ID,
		model.TicketID,
		author,
		model.Body,
		model.IsInternal,
		time.UnixMilli(model.CreatedAt).UTC(),
	), nil
}

func (m *TicketMapperImpl) ActivityToModel(e *ticket.ActivityEntry) *models.TicketActivityModel {
	return &models.TicketActivityModel{
		ID:        e.ID(),
		TicketID:  e.TicketID(),
		Action:    e.Action().String(),
		Detail:    e.Detail(),
		CreatedAt: e.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) ActivityToDomain(model *models.TicketActivityModel) *ticket.ActivityEntry {
	return ticket.ReconstructActivityEntry(
		model.ID,
		model.TicketID,
		ticket.ActivityAction(model.Action),
		model.Detail,
		time.UnixMilli(model.CreatedAt).UTC(),
	)
}

func toMilliPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.UnixMilli()
	return &v
}

func fromMilliPtr(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.UnixMilli(*v).UTC()
	return &t
}
