// Command worker runs the timer refresh for server replicas that share a
// Redis snapshot store and were started with --scheduler=false.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/config"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/scheduler"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/adapters"
	"github.com/Picoli-Igor/Dash2/internal/shared/id"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
	"github.com/Picoli-Igor/Dash2/internal/shared/version"
)

func main() {
	env := os.Getenv("ENV")
	if env == "" && len(os.Args) > 1 {
		env = os.Args[1]
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Dashboard.Trigger != dashboard.TriggerModeTimer || !cfg.Redis.Enabled {
		fmt.Fprintln(os.Stderr, "worker requires dashboard.trigger=timer and redis.enabled=true")
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger().With("version", version.Current())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("worker stopped with error", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Interface) error {
	stack, err := adapters.NewDashboardStack(ctx, cfg, adapters.StackOptions{
		InstanceID: id.NewInstanceID(id.PrefixWorker),
	}, log)
	if err != nil {
		return fmt.Errorf("assemble dashboard: %w", err)
	}
	defer stack.Close()

	sched, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if err := sched.RegisterDashboardRefreshJob(stack.Service, cfg.Dashboard.RefreshInterval, adapters.RefreshTimeout(&cfg.Source)); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	sched.Start()
	log.Infow("refresh worker started",
		"interval", cfg.Dashboard.RefreshInterval,
		"sprint_id", cfg.Source.SprintID,
	)

	<-ctx.Done()
	log.Infow("refresh worker shutting down")
	return sched.Stop()
}
