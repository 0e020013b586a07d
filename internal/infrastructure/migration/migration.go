package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/shared/config"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// Manager handles database migrations with the strategy that fits the driver.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for MySQL and AutoMigrate for sqlite.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	var strategy Strategy
	if cfg.IsSQLite() {
		strategy = NewAutoMigrateStrategy()
	} else {
		strategy = NewGooseStrategy()
	}
	return NewManagerWithStrategy(strategy)
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())
	if err := m.strategy.Up(db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	if err := m.strategy.Down(db, steps); err != nil {
		return fmt.Errorf("rollback failed with strategy %s: %w", m.strategy.Name(), err)
	}
	return nil
}

func (m *Manager) Status(db *gorm.DB) error {
	return m.strategy.Status(db)
}

func (m *Manager) Version(db *gorm.DB) (int64, error) {
	return m.strategy.Version(db)
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}
