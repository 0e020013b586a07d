package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/domain/calendar"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/mappers"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
	"github.com/corvid-crm/corvid/internal/shared/db"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*calendar.Event, error) {
	var model models.CalendarEventModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return mappers.EventToDomain(&model), nil
}

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) ReplaceForEvent(ctx context.Context, eventID uint, reminder *calendar.EventReminder) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventReminderModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete event reminders: %w", err)
		}
		if reminder == nil {
			return nil
		}
		if reminder.EventID() != eventID {
			return fmt.Errorf("reminder belongs to event %d, not %d", reminder.EventID(), eventID)
		}
		model := mappers.ReminderToModel(reminder)
		model.ID = 0
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create event reminder: %w", err)
		}
		reminder.SetID(model.ID)
		return nil
	})
}

func (r *ReminderRepository) DeleteByEventID(ctx context.Context, eventID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("event_id = ?", eventID).
		Delete(&models.EventReminderModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete event reminders: %w", err)
	}
	return nil
}

func (r *ReminderRepository) ListByEventID(ctx context.Context, eventID uint) ([]*calendar.EventReminder, error) {
	var rows []models.EventReminderModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list event reminders: %w", err)
	}
	return remindersToDomain(rows), nil
}

func (r *ReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*calendar.EventReminder, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Where("scheduled_at <= ?", now.UTC()).
		Where("(browser_enabled = ? AND browser_sent = ?) OR (email_enabled = ? AND email_sent = ?)", true, false, true, false).
		Order("scheduled_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.EventReminderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	return remindersToDomain(rows), nil
}

func (r *ReminderRepository) ClaimEmail(ctx context.Context, id uint, now time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.EventReminderModel{}).
		Where("id = ? AND email_sent = ?", id, false).
		Updates(map[string]any{"email_sent": true, "email_sent_at": now.UTC()})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim reminder email: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *ReminderRepository) ClaimBrowser(ctx context.Context, id uint, now time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.EventReminderModel{}).
		Where("id = ? AND browser_sent = ?", id, false).
		Updates(map[string]any{"browser_sent": true, "browser_sent_at": now.UTC()})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim reminder browser: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *ReminderRepository) ReleaseBrowser(ctx context.Context, id uint, maxAttempts int) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	released := tx.Model(&models.EventReminderModel{}).
		Where("id = ? AND browser_sent = ? AND browser_attempts + 1 < ?", id, true, maxAttempts).
		Updates(map[string]any{
			"browser_sent":     false,
			"browser_sent_at":  nil,
			"browser_attempts": gorm.Expr("browser_attempts + 1"),
		})
	if released.Error != nil {
		return false, fmt.Errorf("failed to release reminder browser: %w", released.Error)
	}
	if released.RowsAffected == 1 {
		return true, nil
	}

	// budget exhausted: keep the claim, record the final failure
	if err := tx.Model(&models.EventReminderModel{}).
		Where("id = ?", id).
		UpdateColumn("browser_attempts", gorm.Expr("browser_attempts + 1")).Error; err != nil {
		return false, fmt.Errorf("failed to record reminder browser attempt: %w", err)
	}
	return false, nil
}

func remindersToDomain(rows []models.EventReminderModel) []*calendar.EventReminder {
	out := make([]*calendar.EventReminder, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.ReminderToDomain(&rows[i]))
	}
	return out
}
