package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/domain/ticket"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/mappers"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
	"github.com/corvid-crm/corvid/internal/shared/db"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return t.SetID(model.ID)
}

// Update writes every mutable column, including ones cleared to NULL or zero.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"subject":            model.Subject,
			"description":        model.Description,
			"status":             model.Status,
			"priority":           model.Priority,
			"support_type":       model.SupportType,
			"assignee_id":        model.AssigneeID,
			"time_spent_minutes": model.TimeSpentMinutes,
			"closing_notes":      model.ClosingNotes,
			"closed_at":          model.ClosedAt,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	return nil
}

// Delete removes the ticket, its messages and its activity log.
func (r *TicketRepository) Delete(ctx context.Context, ticketID uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.TicketActivityModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete ticket activity: %w", err)
		}
		if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.TicketMessageModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete ticket messages: %w", err)
		}
		result := tx.Delete(&models.TicketModel{}, ticketID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete ticket: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("ticket %d not found", ticketID)
		}
		return nil
	})
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.TicketModel{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// LatestNumberByPrefix orders by length first so T2025-10000 ranks above
// T2025-9999.
func (r *TicketRepository) LatestNumberByPrefix(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.TicketModel{}).
		Where("number LIKE ?", prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Pluck("number", &numbers).Error; err != nil {
		return "", fmt.Errorf("failed to get latest ticket number: %w", err)
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

type TicketMessageRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketMessageRepository(db *gorm.DB) *TicketMessageRepository {
	return &TicketMessageRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketMessageRepository) Create(ctx context.Context, msg *ticket.Message) error {
	model := r.mapper.MessageToModel(msg)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket message: %w", err)
	}
	msg.SetID(model.ID)
	return nil
}

func (r *TicketMessageRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Message, error) {
	var rows []models.TicketMessageModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket messages: %w", err)
	}

	out := make([]*ticket.Message, 0, len(rows))
	for i := range rows {
		msg, err := r.mapper.MessageToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func (r *TicketMessageRepository) CountByTicketID(ctx context.Context, ticketID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketMessageModel{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ticket messages: %w", err)
	}
	return count, nil
}

type TicketActivityRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketActivityRepository(db *gorm.DB) *TicketActivityRepository {
	return &TicketActivityRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketActivityRepository) Append(ctx context.Context, entry *ticket.ActivityEntry) error {
	model := r.mapper.ActivityToModel(entry)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append ticket activity: %w", err)
	}
	entry.SetID(model.ID)
	return nil
}

func (r *TicketActivityRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.ActivityEntry, error) {
	var rows []models.TicketActivityModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket activity: %w", err)
	}

	out := make([]*ticket.ActivityEntry, 0, len(rows))
	for i := range rows {
		out = append(out, r.mapper.ActivityToDomain(&rows[i]))
	}
	return out, nil
}
