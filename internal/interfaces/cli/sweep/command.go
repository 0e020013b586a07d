package sweep

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-crm/corvid/internal/infrastructure/database"
	"github.com/corvid-crm/corvid/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/corvid-crm/corvid/internal/interfaces/http"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one sweep and exit",
		Long:  `Run a single batch of a periodic sweep. Useful from cron or for operators draining a backlog.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newSweepCommand("reminders", "Dispatch due event reminders", (*httpRouter.Container).RunReminderSweep),
		newSweepCommand("tasks", "Notify due-soon and overdue tasks", (*httpRouter.Container).RunTaskDeadlineSweep),
	)

	return cmd
}

func newSweepCommand(use, short string, sweep func(*httpRouter.Container, context.Context) (int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.InitWithDatabase(bootstrap.Env(env))
			if err != nil {
				return err
			}
			defer database.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			container := httpRouter.NewContainer(ctx, database.Get(), cfg, log)
			defer container.Shutdown()

			processed, err := sweep(container, ctx)
			if err != nil {
				log.Errorw("sweep failed", "sweep", use, "error", err)
				return err
			}

			log.Infow("sweep completed", "sweep", use, "processed", processed)
			fmt.Fprintf(cmd.OutOrStdout(), "%s sweep processed %d item(s)\n", use, processed)
			return nil
		},
	}
}
