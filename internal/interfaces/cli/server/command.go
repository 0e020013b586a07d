package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/corvid-crm/corvid/internal/infrastructure/database"
	"github.com/corvid-crm/corvid/internal/infrastructure/migration"
	"github.com/corvid-crm/corvid/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/corvid-crm/corvid/internal/interfaces/http"
)

var (
	env         string
	autoMigrate bool
	noScheduler bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the corvid HTTP API. The reminder and task sweeps run in-process unless --no-scheduler is set.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Do not run the periodic sweeps in this process")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.Env(env)

	cfg, log, err := bootstrap.InitWithDatabase(env)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
		"scheduler", !noScheduler)

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		if err := migration.NewManager(&cfg.Database).Up(database.Get()); err != nil {
			return err
		}
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	container := httpRouter.NewContainer(ctx, database.Get(), cfg, log)
	defer func() {
		if err := container.Shutdown(); err != nil {
			log.Errorw("failed to shut down container", "error", err)
		}
	}()
	container.SetupRoutes()

	if !noScheduler {
		if err := container.StartScheduler(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
