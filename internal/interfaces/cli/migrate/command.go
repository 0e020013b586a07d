package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-crm/corvid/internal/infrastructure/config"
	"github.com/corvid-crm/corvid/internal/infrastructure/database"
	"github.com/corvid-crm/corvid/internal/infrastructure/migration"
	"github.com/corvid-crm/corvid/internal/interfaces/cli/bootstrap"
	"github.com/corvid-crm/corvid/internal/shared/logger"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the database schema. MySQL uses the embedded goose scripts; sqlite derives the schema from the models.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func initEnv() (*config.Config, logger.Interface, *migration.Manager, error) {
	cfg, log, err := bootstrap.InitWithDatabase(bootstrap.Env(env))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, migration.NewManager(&cfg.Database), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	_, log, mgr, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", mgr.Strategy().Name())

	if err := mgr.Up(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	_, log, mgr, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := mgr.Down(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return err
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, log, mgr, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	version, err := mgr.Version(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Strategy:        %s\n", mgr.Strategy().Name())
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := mgr.Status(database.Get()); err != nil {
		log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}
