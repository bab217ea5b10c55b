// Package adapters assembles the dashboard from configuration: the SQL
// Server source with retries, the pipeline, the snapshot store and the
// optional Redis and Prometheus integrations.
package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/cache"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/config"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/database"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/metrics"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/pubsub"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/ratelimit"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/repository"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/resilience"
	"github.com/Picoli-Igor/Dash2/internal/shared/biztime"
	sharedConfig "github.com/Picoli-Igor/Dash2/internal/shared/config"
	"github.com/Picoli-Igor/Dash2/internal/shared/id"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

const (
	redisPingTimeout = 5 * time.Second
	loginLimitPrefix = "dash2:login:"
)

// DashboardStack is every component one process needs to serve or refresh
// the dashboard. Optional parts are nil when disabled.
type DashboardStack struct {
	Service  *dashboard.Service
	Refresh  *usecases.RefreshDashboardUseCase
	Local    *cache.MemorySnapshotStore
	Store    dashboard.SnapshotStore
	Metrics  *metrics.Metrics
	Redis    *redis.Client
	EventBus *pubsub.RedisSnapshotEventBus
	// LoginLimiter is nil in timer mode or when the limit is disabled.
	LoginLimiter ratelimit.Limiter

	log logger.Interface
}

// StackOptions tunes NewDashboardStack per process kind.
type StackOptions struct {
	InstanceID string
	// Source overrides the SQL Server source; tests pass a fake.
	Source sprint.TicketSource
}

// NewDashboardStack builds the stack described by cfg. Redis is pinged
// once so a misconfigured cache fails at startup rather than on first use.
func NewDashboardStack(ctx context.Context, cfg *config.Config, opts StackOptions, log logger.Interface) (*DashboardStack, error) {
	if err := biztime.Init(cfg.Dashboard.Timezone); err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	buckets, err := dashboard.BuildBucketSet(cfg.Dashboard.Buckets)
	if err != nil {
		return nil, err
	}

	source := opts.Source
	if source == nil {
		source = NewTicketSource(&cfg.Source, log)
	}

	refresh, login, preset, err := dashboard.NewPipeline(source, cfg.Dashboard.Layout, buckets, cfg.Source.SprintID, log)
	if err != nil {
		return nil, err
	}

	s := &DashboardStack{
		Refresh: refresh,
		Local:   cache.NewMemorySnapshotStore(),
		log:     log,
	}
	s.Store = s.Local

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.Metrics = metrics.NewMetrics(cfg.Metrics.Namespace, reg)
		refresh.SetObserver(s.Metrics)
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
		}
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

		s.Redis = client
		s.Store = cache.NewTieredSnapshotStore(s.Local, cache.NewRedisSnapshotStore(client, cfg.Redis.KeyPrefix, cfg.Redis.SnapshotTTL))
		s.EventBus = pubsub.NewRedisSnapshotEventBus(client, pubsub.SnapshotChannel(cfg.Redis.KeyPrefix), opts.InstanceID, log)
	}

	if cfg.Dashboard.Trigger == dashboard.TriggerModeLogin && cfg.Dashboard.LoginAttemptsPerMinute > 0 {
		limit := cfg.Dashboard.LoginAttemptsPerMinute
		if s.Redis != nil {
			s.LoginLimiter = ratelimit.NewRedisRateLimiter(s.Redis, loginLimitPrefix, limit, time.Minute)
		} else {
			s.LoginLimiter = ratelimit.NewMemoryRateLimiter(limit, time.Minute)
		}
	}

	s.Service = dashboard.NewService(refresh, login, s.Store, preset, dashboard.ServiceConfig{
		TriggerMode:    cfg.Dashboard.Trigger,
		Params:         StaticParams(&cfg.Source),
		RefreshTimeout: RefreshTimeout(&cfg.Source),
	}, log)
	// login submissions are request-scoped and must not move the shared state
	if cfg.Dashboard.Trigger == dashboard.TriggerModeTimer {
		refresh.SetStateRecorder(s.Service)
	}
	if s.EventBus != nil {
		s.Service.SetPublisher(s.EventBus)
	}

	log.Infow("dashboard assembled",
		"trigger", cfg.Dashboard.Trigger,
		"layout", preset.Name,
		"sprint_id", cfg.Source.SprintID,
		"redis", cfg.Redis.Enabled,
		"metrics", cfg.Metrics.Enabled,
	)
	return s, nil
}

// NewTicketSource returns the SQL Server repository behind the retry and
// timeout decorator.
func NewTicketSource(cfg *sharedConfig.SourceConfig, log logger.Interface) sprint.TicketSource {
	repo := repository.NewSprintTicketRepository(database.NewSQLServerOpener(cfg, log), log)
	return resilience.NewRetryingTicketSource(repo, cfg.Retry, cfg.QueryTimeout, log)
}

// StaticParams returns the connection configured for the timer mode.
func StaticParams(cfg *sharedConfig.SourceConfig) sprint.ConnectionParams {
	return sprint.ConnectionParams{
		Server:   cfg.Server,
		Database: cfg.Database,
		Username: cfg.Username,
		Password: cfg.Password,
	}
}

// RefreshTimeout bounds one whole pipeline run, retries included.
func RefreshTimeout(cfg *sharedConfig.SourceConfig) time.Duration {
	return cfg.Retry.MaxElapsedTime + cfg.ConnectTimeout + cfg.QueryTimeout
}

// WatchSnapshots drops the in-memory copy whenever another process
// publishes a snapshot, so the next read comes from Redis. It blocks until
// ctx is done and is a no-op without Redis.
func (s *DashboardStack) WatchSnapshots(ctx context.Context) error {
	if s.EventBus == nil {
		return nil
	}
	return s.EventBus.Subscribe(ctx, func(_ context.Context, event pubsub.SnapshotEvent) {
		s.log.Debugw("snapshot published elsewhere",
			"instance_id", event.InstanceID,
			"publisher", id.Kind(event.InstanceID),
			"outcome", event.Outcome,
		)
		s.Local.Invalidate()
	})
}

// Close releases the Redis connection.
func (s *DashboardStack) Close() error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}
