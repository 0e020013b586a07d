package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/corvid-crm/corvid/internal/interfaces/cli/migrate"
	"github.com/corvid-crm/corvid/internal/interfaces/cli/server"
	"github.com/corvid-crm/corvid/internal/interfaces/cli/sweep"
	"github.com/corvid-crm/corvid/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "corvid",
		Short: "Corvid - support tickets, reminders and notifications",
		Long:  `Corvid serves the support ticket API and runs the reminder and task deadline sweeps.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		sweep.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
