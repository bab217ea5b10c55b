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

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/config"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/scheduler"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/adapters"
	httpRouter "github.com/Picoli-Igor/Dash2/internal/interfaces/http"
	"github.com/Picoli-Igor/Dash2/internal/shared/goroutine"
	"github.com/Picoli-Igor/Dash2/internal/shared/id"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

var (
	env          string
	runScheduler bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the dashboard HTTP server. In timer mode the server also refreshes the dashboard on schedule unless --scheduler=false is given because a worker does it.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&runScheduler, "scheduler", true, "Run the refresh schedule in this process (timer mode only)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting server",
		"environment", env,
		"trigger", cfg.Dashboard.Trigger,
		"layout", cfg.Dashboard.Layout,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stack, err := adapters.NewDashboardStack(ctx, cfg, adapters.StackOptions{
		InstanceID: id.NewInstanceID(id.PrefixServer),
	}, log)
	if err != nil {
		return fmt.Errorf("failed to assemble dashboard: %w", err)
	}
	defer stack.Close()

	router, err := httpRouter.NewRouter(stack, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	router.SetupRoutes()

	if cfg.Dashboard.Trigger == dashboard.TriggerModeTimer && runScheduler {
		sched, err := scheduler.NewSchedulerManager(log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := sched.RegisterDashboardRefreshJob(stack.Service, cfg.Dashboard.RefreshInterval, adapters.RefreshTimeout(&cfg.Source)); err != nil {
			return fmt.Errorf("failed to register refresh job: %w", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Errorw("failed to stop scheduler", "error", err)
			}
		}()
	}

	background := goroutine.NewGroup(log)
	background.Go("snapshot-watcher", func() {
		if err := stack.WatchSnapshots(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("snapshot watcher stopped", "error", err)
		}
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: adapters.RefreshTimeout(&cfg.Source) + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		log.Errorw("failed to start server", "error", err)
		return err
	}

	log.Infow("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	cancel()
	if err := background.Wait(shutdownCtx); err != nil {
		log.Warnw("background work did not stop in time", "error", err)
	}

	log.Infow("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
