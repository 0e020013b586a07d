package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/domain/client"
	"github.com/corvid-crm/corvid/internal/domain/user"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/mappers"
	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
	"github.com/corvid-crm/corvid/internal/shared/db"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mappers.UserToDomain(&model)
}

func (r *UserRepository) ListActiveByRoles(ctx context.Context, roles []user.Role) ([]*user.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	var rows []models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("active = ? AND role IN ?", true, names).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}

	out := make([]*user.User, 0, len(rows))
	for i := range rows {
		u, err := mappers.UserToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

type ClientAccessRepository struct {
	db *gorm.DB
}

func NewClientAccessRepository(db *gorm.DB) *ClientAccessRepository {
	return &ClientAccessRepository{db: db}
}

func (r *ClientAccessRepository) GetByID(ctx context.Context, id uint) (*client.Access, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ClientAccessRepository) GetByClientID(ctx context.Context, clientID uint) (*client.Access, error) {
	return r.first(ctx, "client_id = ?", clientID)
}

func (r *ClientAccessRepository) first(ctx context.Context, query string, arg any) (*client.Access, error) {
	var model models.ClientAccessModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client access: %w", err)
	}
	return mappers.ClientAccessToDomain(&model)
}

// AddSupportHours increments the counter in the database so concurrent
// close/log-time calls on the same client never lose an update.
func (r *ClientAccessRepository) AddSupportHours(ctx context.Context, id uint, hours float64) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ClientAccessModel{}).
		Where("id = ?", id).
		UpdateColumn("support_hours_used", gorm.Expr("support_hours_used + ?", hours))
	if result.Error != nil {
		return fmt.Errorf("failed to add support hours: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("client access %d not found", id)
	}
	return nil
}
