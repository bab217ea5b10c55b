// Package dashboard wires the refresh and login use cases to the snapshot
// store shared with the HTTP layer and the scheduler.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint/valueobjects"
	"github.com/Picoli-Igor/Dash2/internal/shared/config"
	"github.com/Picoli-Igor/Dash2/internal/shared/errors"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

const (
	TriggerModeTimer = "timer"
	TriggerModeLogin = "login"
)

const refreshKey = "dashboard-refresh"

// SnapshotStore holds the latest published snapshot. Load returns nil, nil
// before the first Save.
type SnapshotStore interface {
	Load(ctx context.Context) (*dto.DashboardSnapshot, error)
	Save(ctx context.Context, snapshot *dto.DashboardSnapshot) error
}

// SnapshotPublisher announces a stored snapshot to other instances.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot *dto.DashboardSnapshot) error
}

// ServiceConfig carries the static settings of the service.
type ServiceConfig struct {
	TriggerMode    string
	Params         sprint.ConnectionParams
	RefreshTimeout time.Duration
}

// Service serves the two dashboard modes. In timer mode it runs the
// pipeline on demand and on schedule and publishes one snapshot per run.
// In login mode every submission runs the pipeline for that request only.
type Service struct {
	refresh   usecases.RefreshDashboardExecutor
	login     usecases.SubmitLoginExecutor
	store     SnapshotStore
	publisher SnapshotPublisher
	preset    usecases.Preset
	cfg       ServiceConfig
	group     singleflight.Group
	logger    logger.Interface

	stateMu sync.RWMutex
	state   dto.RefreshState
}

func NewService(
	refresh usecases.RefreshDashboardExecutor,
	login usecases.SubmitLoginExecutor,
	store SnapshotStore,
	preset usecases.Preset,
	cfg ServiceConfig,
	logger logger.Interface,
) *Service {
	return &Service{
		refresh: refresh,
		login:   login,
		store:   store,
		preset:  preset,
		cfg:     cfg,
		logger:  logger,
		state:   dto.RefreshStateIdle,
	}
}

// SetPublisher enables snapshot events after each Save.
func (s *Service) SetPublisher(publisher SnapshotPublisher) {
	s.publisher = publisher
}

// TriggerMode returns "timer" or "login".
func (s *Service) TriggerMode() string {
	return s.cfg.TriggerMode
}

// Preset returns the layout the service renders.
func (s *Service) Preset() usecases.Preset {
	return s.preset
}

// SetState implements usecases.StateRecorder.
func (s *Service) SetState(state dto.RefreshState) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}

func (s *Service) currentState() dto.RefreshState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Refresh runs the pipeline once and publishes the result. Concurrent
// callers share the run in flight. The run is detached from ctx so a
// client that goes away does not abort a refresh other callers wait on.
func (s *Service) Refresh(ctx context.Context, trigger usecases.Trigger) (*dto.DashboardSnapshot, error) {
	if s.cfg.TriggerMode != TriggerModeTimer {
		return nil, errors.NewValidationError("refresh is only available in timer mode",
			"the dashboard is loaded through the login form")
	}

	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout())
		defer cancel()

		snapshot, err := s.refresh.Execute(runCtx, s.cfg.Params, trigger)
		if snapshot != nil {
			s.publish(runCtx, snapshot)
		}
		return snapshot, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		snapshot, _ := res.Val.(*dto.DashboardSnapshot)
		if res.Shared {
			s.logger.Debugw("refresh coalesced with in-flight run", "trigger", trigger)
		}
		return snapshot, res.Err
	}
}

// Execute is the scheduled job: one timer-triggered refresh.
func (s *Service) Execute(ctx context.Context) (int, error) {
	snapshot, err := s.Refresh(ctx, usecases.TriggerTimer)
	if err != nil {
		return 0, err
	}
	return snapshot.Summary.Total, nil
}

func (s *Service) publish(ctx context.Context, snapshot *dto.DashboardSnapshot) {
	if err := s.store.Save(ctx, snapshot); err != nil {
		s.logger.Errorw("failed to store snapshot",
			"outcome", snapshot.Outcome,
			"error", err,
		)
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSnapshot(ctx, snapshot); err != nil {
		s.logger.Warnw("failed to publish snapshot event", "error", err)
	}
}

// Latest returns the stored snapshot, or a pending one before the first
// refresh completes.
func (s *Service) Latest(ctx context.Context) (*dto.DashboardSnapshot, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Errorw("failed to load snapshot", "error", err)
		return nil, errors.NewUnavailableError("snapshot store unavailable").Wrap(err)
	}
	if snapshot == nil {
		return dto.PendingSnapshot(s.preset.Name), nil
	}
	return snapshot, nil
}

// Status returns the latest snapshot with the live pipeline state.
func (s *Service) Status(ctx context.Context) (*dto.DashboardStatus, error) {
	snapshot, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardStatus{
		State:    s.currentState(),
		Snapshot: snapshot,
	}, nil
}

// SubmitLogin handles one login form submission. Nothing is stored.
func (s *Service) SubmitLogin(ctx context.Context, req dto.SubmitLoginRequest) (*dto.LoginResult, error) {
	if s.cfg.TriggerMode != TriggerModeLogin {
		return nil, errors.NewValidationError("login is only available in login mode")
	}

	runCtx, cancel := context.WithTimeout(ctx, s.refreshTimeout())
	defer cancel()
	return s.login.Execute(runCtx, req), nil
}

func (s *Service) refreshTimeout() time.Duration {
	if s.cfg.RefreshTimeout > 0 {
		return s.cfg.RefreshTimeout
	}
	return 2 * time.Minute
}

// BuildBucketSet turns the configured buckets into a BucketSet. No
// configured buckets means the default helpdesk grouping.
func BuildBucketSet(cfgs []config.BucketConfig) (*valueobjects.BucketSet, error) {
	if len(cfgs) == 0 {
		return valueobjects.DefaultBucketSet(), nil
	}

	buckets := make([]valueobjects.Bucket, 0, len(cfgs))
	for _, c := range cfgs {
		codes := make([]valueobjects.StatusCode, 0, len(c.Codes))
		for _, code := range c.Codes {
			codes = append(codes, valueobjects.StatusCode(code))
		}
		b, err := valueobjects.NewBucket(c.Key, c.Label, codes...)
		if err != nil {
			return nil, errors.NewValidationError("invalid bucket configuration", err.Error())
		}
		buckets = append(buckets, b)
	}

	set, err := valueobjects.NewBucketSet(buckets...)
	if err != nil {
		return nil, errors.NewValidationError("invalid bucket configuration", err.Error())
	}
	return set, nil
}

// NewPipeline builds the refresh and login use cases for one layout.
func NewPipeline(source sprint.TicketSource, layout string, buckets *valueobjects.BucketSet, sprintID int, log logger.Interface) (*usecases.RefreshDashboardUseCase, *usecases.SubmitLoginUseCase, usecases.Preset, error) {
	preset, err := usecases.LookupPreset(layout, buckets)
	if err != nil {
		return nil, nil, usecases.Preset{}, fmt.Errorf("failed to resolve layout: %w", err)
	}

	summarizerBuckets := valueobjects.EmptyBucketSet()
	if preset.UseBuckets {
		summarizerBuckets = buckets
	}

	refresh := usecases.NewRefreshDashboardUseCase(
		source,
		usecases.NewSummarizer(summarizerBuckets),
		usecases.NewChartBuilder(),
		preset,
		sprintID,
		log,
	)
	login := usecases.NewSubmitLoginUseCase(refresh, preset, log)
	return refresh, login, preset, nil
}
