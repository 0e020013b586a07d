package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/domain/task"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/mappers"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
	"github.com/corvid-crm/corvid/internal/shared/db"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*task.Task, error) {
	var model models.TaskModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return mappers.TaskToDomain(&model), nil
}

func (r *TaskRepository) FindDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]*task.Task, error) {
	now = now.UTC()
	query := db.GetTxFromContext(ctx, r.db).
		Where("completed = ? AND due_soon_notified_at IS NULL", false).
		Where("due_at >= ? AND due_at <= ?", now, now.Add(window))
	return r.find(query, limit)
}

func (r *TaskRepository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]*task.Task, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Where("completed = ? AND overdue_notified_at IS NULL", false).
		Where("due_at < ?", now.UTC())
	return r.find(query, limit)
}

func (r *TaskRepository) find(query *gorm.DB, limit int) ([]*task.Task, error) {
	query = query.Order("due_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.TaskModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	out := make([]*task.Task, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.TaskToDomain(&rows[i]))
	}
	return out, nil
}

func (r *TaskRepository) ClaimDueSoon(ctx context.Context, id uint, now time.Time) (bool, error) {
	return r.claim(ctx, id, "due_soon_notified_at", now)
}

func (r *TaskRepository) ClaimOverdue(ctx context.Context, id uint, now time.Time) (bool, error) {
	return r.claim(ctx, id, "overdue_notified_at", now)
}

func (r *TaskRepository) claim(ctx context.Context, id uint, column string, now time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TaskModel{}).
		Where("id = ? AND "+column+" IS NULL", id).
		UpdateColumn(column, now.UTC())
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim task %s: %w", column, result.Error)
	}
	return result.RowsAffected == 1, nil
}
