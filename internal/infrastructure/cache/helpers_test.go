package cache

import (
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/shared/config"
)

func redisConfigFor(t *testing.T, mr *miniredis.Miniredis) *config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return &config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}
}
