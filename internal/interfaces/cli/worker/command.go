package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corvid-crm/corvid/internal/infrastructure/database"
	"github.com/corvid-crm/corvid/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/corvid-crm/corvid/internal/interfaces/http"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the periodic sweeps without the HTTP API",
		Long:  `Run the due event reminder sweep and the task deadline sweep on their configured intervals until interrupted.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.Env(env)

	cfg, log, err := bootstrap.InitWithDatabase(env)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("starting sweep worker",
		"environment", env,
		"reminder_interval", cfg.Scheduler.ReminderInterval,
		"task_interval", cfg.Scheduler.TaskInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	container := httpRouter.NewContainer(ctx, database.Get(), cfg, log)
	defer func() {
		if err := container.Shutdown(); err != nil {
			log.Errorw("failed to shut down worker", "error", err)
		}
	}()

	if err := container.StartScheduler(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	<-ctx.Done()
	log.Infow("worker stopping")
	return nil
}
