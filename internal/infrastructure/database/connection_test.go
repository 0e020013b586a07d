package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/shared/config"
)

func TestInit_SQLiteInMemory(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", SQLitePath: "file:conn_test?mode=memory&cache=shared"}

	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Close() })

	require.NotNil(t, Get())
	var one int
	require.NoError(t, Get().Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestClose_WithoutInitIsNoop(t *testing.T) {
	dbMu.Lock()
	saved := db
	db = nil
	dbMu.Unlock()
	t.Cleanup(func() {
		dbMu.Lock()
		db = saved
		dbMu.Unlock()
	})

	assert.NoError(t, Close())
}
