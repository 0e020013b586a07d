package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/corvid-crm/corvid/internal/infrastructure/persistence/models"
	"github.com/corvid-crm/corvid/internal/shared/config"
)

func TestNewManager_PicksStrategyByDriver(t *testing.T) {
	assert.Equal(t, "gorm_auto_migrate", NewManager(&config.DatabaseConfig{Driver: "sqlite"}).Strategy().Name())
	assert.Equal(t, "goose", NewManager(&config.DatabaseConfig{Driver: "mysql"}).Strategy().Name())
}

func TestAutoMigrate_UpAndDown(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	m := NewManagerWithStrategy(NewAutoMigrateStrategy())
	require.NoError(t, m.Up(db))
	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	require.NoError(t, m.Down(db, len(models.All())))
	for _, model := range models.All() {
		assert.False(t, db.Migrator().HasTable(model))
	}
}

func TestEmbeddedScripts_CoverEveryTable(t *testing.T) {
	raw, err := fs.ReadFile(scripts, "scripts/00001_init_support.sql")
	require.NoError(t, err)
	sql := string(raw)

	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: db}
		require.NoError(t, stmt.Parse(model))
		assert.True(t, strings.Contains(sql, "CREATE TABLE "+stmt.Schema.Table+" ("), stmt.Schema.Table)
	}
}
