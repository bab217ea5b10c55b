// Package scheduler runs the timer-driven dashboard refresh using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Picoli-Igor/Dash2/internal/shared/biztime"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

// RefreshJob is one timer-driven dashboard refresh. Execute reports how many
// tickets the new snapshot holds.
type RefreshJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the gocron scheduler. Jobs run in singleton mode, so a
// tick that fires while the previous run is still going is skipped.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// jobCtx is canceled on Stop so running jobs abort their queries.
	jobCtx    context.Context
	cancelJob context.CancelFunc

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
		jobCtx:    ctx,
		cancelJob: cancel,
	}, nil
}

// RegisterDashboardRefreshJob refreshes the dashboard every interval,
// starting immediately. Each run is bounded by timeout.
func (m *SchedulerManager) RegisterDashboardRefreshJob(job RefreshJob, interval, timeout time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(m.jobCtx, timeout)
			defer cancel()
			m.refreshDashboard(ctx, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("dashboard", "refresh"),
		gocron.WithName("dashboard-refresh"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered dashboard refresh job", "interval", interval, "timeout", timeout)
	return nil
}

func (m *SchedulerManager) refreshDashboard(ctx context.Context, job RefreshJob) {
	start := biztime.NowUTC()
	count, err := job.Execute(ctx)
	log := m.logger.With("duration", time.Since(start))
	if err != nil {
		log.Errorw("timer refresh failed", "error", err)
		return
	}
	log.Debugw("timer refresh completed", "tickets", count)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop cancels running jobs and waits for them to return.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	m.cancelJob()
	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
