// Package bootstrap loads configuration and opens the process-wide logger,
// business timezone and database for the CLI commands.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/corvid-crm/corvid/internal/infrastructure/config"
	"github.com/corvid-crm/corvid/internal/infrastructure/database"
	"github.com/corvid-crm/corvid/internal/shared/biztime"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// Env resolves the environment name; the ENV variable wins over the flag.
func Env(flagValue string) string {
	if v := os.Getenv("ENV"); v != "" {
		return v
	}
	return flagValue
}

// GinMode maps an environment name to a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// Init loads the configuration for env and initialises the logger and the
// business timezone.
func Init(env string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(GinMode(env))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.IsDebug()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// InitWithDatabase is Init followed by database.Init. The caller closes the
// database with database.Close.
func InitWithDatabase(env string) (*config.Config, logger.Interface, error) {
	cfg, log, err := Init(env)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, log, nil
}
