package dashboard

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint/valueobjects"
	"github.com/Picoli-Igor/Dash2/internal/shared/config"
	"github.com/Picoli-Igor/Dash2/internal/shared/errors"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

var timerParams = sprint.ConnectionParams{Server: "db", Database: "helpdesk", Username: "dash"}

func newTimerService(t *testing.T, refresh *mockRefresh, store *memoryStore) *Service {
	t.Helper()
	preset, err := usecases.LookupPreset(usecases.LayoutSprint, valueobjects.DefaultBucketSet())
	require.NoError(t, err)
	return NewService(refresh, nil, store, preset, ServiceConfig{
		TriggerMode:    TriggerModeTimer,
		Params:         timerParams,
		RefreshTimeout: time.Second,
	}, logger.NewNopLogger())
}

func TestService_LatestBeforeFirstRefresh(t *testing.T) {
	svc := newTimerService(t, &mockRefresh{}, &memoryStore{})

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.RefreshStateIdle, status.State)
	assert.Equal(t, dto.OutcomePending, status.Snapshot.Outcome)
	assert.Equal(t, usecases.LayoutSprint, status.Snapshot.Layout)
}

func TestService_RefreshStoresAndPublishes(t *testing.T) {
	refresh := &mockRefresh{
		ExecuteFunc: func(_ context.Context, params sprint.ConnectionParams, trigger usecases.Trigger) (*dto.DashboardSnapshot, error) {
			assert.Equal(t, timerParams, params)
			assert.Equal(t, usecases.TriggerManual, trigger)
			return readySnapshot(10), nil
		},
	}
	store := &memoryStore{}
	publisher := &mockPublisher{}
	svc := newTimerService(t, refresh, store)
	svc.SetPublisher(publisher)

	snapshot, err := svc.Refresh(context.Background(), usecases.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 10, snapshot.Summary.Total)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Same(t, snapshot, latest)
	assert.Len(t, publisher.published, 1)
}

func TestService_FailedRefreshIsStored(t *testing.T) {
	sourceErr := stderrors.Join(sprint.ErrSourceUnavailable, stderrors.New("dial tcp: timeout"))
	refresh := &mockRefresh{
		ExecuteFunc: func(context.Context, sprint.ConnectionParams, usecases.Trigger) (*dto.DashboardSnapshot, error) {
			return &dto.DashboardSnapshot{Outcome: dto.OutcomeFailed, Error: sourceErr.Error()}, sourceErr
		},
	}
	store := &memoryStore{}
	svc := newTimerService(t, refresh, store)

	count, err := svc.Execute(context.Background())
	assert.ErrorIs(t, err, sprint.ErrSourceUnavailable)
	assert.Zero(t, count)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeFailed, latest.Outcome)
}

func TestService_ExecuteReturnsTicketCount(t *testing.T) {
	refresh := &mockRefresh{
		ExecuteFunc: func(_ context.Context, _ sprint.ConnectionParams, trigger usecases.Trigger) (*dto.DashboardSnapshot, error) {
			assert.Equal(t, usecases.TriggerTimer, trigger)
			return readySnapshot(7), nil
		},
	}
	svc := newTimerService(t, refresh, &memoryStore{})

	count, err := svc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestService_ConcurrentRefreshesShareOneRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	refresh := &mockRefresh{
		ExecuteFunc: func(context.Context, sprint.ConnectionParams, usecases.Trigger) (*dto.DashboardSnapshot, error) {
			started <- struct{}{}
			<-release
			return readySnapshot(3), nil
		},
	}
	store := &memoryStore{}
	svc := newTimerService(t, refresh, store)

	var wg sync.WaitGroup
	results := make([]*dto.DashboardSnapshot, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snapshot, err := svc.Refresh(context.Background(), usecases.TriggerManual)
			assert.NoError(t, err)
			results[i] = snapshot
		}(i)
		if i == 0 {
			<-started
		}
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, refresh.calls.Load())
	assert.Equal(t, 1, store.saves)
	assert.Same(t, results[0], results[1])
	assert.Same(t, results[0], results[2])
}

func TestService_RefreshOutlivesCallerContext(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	refresh := &mockRefresh{
		ExecuteFunc: func(ctx context.Context, _ sprint.ConnectionParams, _ usecases.Trigger) (*dto.DashboardSnapshot, error) {
			defer close(done)
			<-release
			assert.NoError(t, ctx.Err())
			return readySnapshot(1), nil
		},
	}
	store := &memoryStore{}
	svc := newTimerService(t, refresh, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Refresh(ctx, usecases.TriggerManual)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	<-done
	require.Eventually(t, func() bool {
		latest, _ := svc.Latest(context.Background())
		return latest.Outcome == dto.OutcomeReady
	}, time.Second, 10*time.Millisecond)
}

func TestService_StoreFailure(t *testing.T) {
	svc := newTimerService(t, &mockRefresh{}, &memoryStore{LoadErr: stderrors.New("redis down")})

	_, err := svc.Status(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeUnavailable, errors.GetAppError(err).Type)
}

func TestService_ModeGuards(t *testing.T) {
	preset, err := usecases.LookupPreset(usecases.LayoutBasic, nil)
	require.NoError(t, err)

	login := &mockLogin{
		ExecuteFunc: func(_ context.Context, req dto.SubmitLoginRequest) *dto.LoginResult {
			return &dto.LoginResult{State: dto.LoginStateShowing, SprintName: req.Database}
		},
	}
	loginSvc := NewService(&mockRefresh{}, login, &memoryStore{}, preset,
		ServiceConfig{TriggerMode: TriggerModeLogin}, logger.NewNopLogger())

	_, err = loginSvc.Refresh(context.Background(), usecases.TriggerManual)
	assert.True(t, errors.IsValidationError(err))

	result, err := loginSvc.SubmitLogin(context.Background(), dto.SubmitLoginRequest{Database: "helpdesk", Attempts: 1})
	require.NoError(t, err)
	assert.Equal(t, dto.LoginStateShowing, result.State)

	timerSvc := newTimerService(t, &mockRefresh{}, &memoryStore{})
	_, err = timerSvc.SubmitLogin(context.Background(), dto.SubmitLoginRequest{Attempts: 1})
	assert.True(t, errors.IsValidationError(err))
}

func TestService_SetState(t *testing.T) {
	svc := newTimerService(t, &mockRefresh{}, &memoryStore{})
	svc.SetState(dto.RefreshStateFetching)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.RefreshStateFetching, status.State)
}

func TestBuildBucketSet(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		set, err := BuildBucketSet(nil)
		require.NoError(t, err)
		assert.Equal(t, 4, set.Len())
	})

	t.Run("configured", func(t *testing.T) {
		set, err := BuildBucketSet([]config.BucketConfig{
			{Key: "open", Label: "Abertos", Codes: []int{1, 3}},
			{Key: "closed", Label: "Fechados", Codes: []int{7}},
		})
		require.NoError(t, err)
		b, ok := set.Classify(3)
		require.True(t, ok)
		assert.Equal(t, "open", b.Key())
	})

	t.Run("overlap", func(t *testing.T) {
		_, err := BuildBucketSet([]config.BucketConfig{
			{Key: "a", Label: "A", Codes: []int{1}},
			{Key: "b", Label: "B", Codes: []int{1}},
		})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("no codes", func(t *testing.T) {
		_, err := BuildBucketSet([]config.BucketConfig{{Key: "a", Label: "A"}})
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestNewPipeline(t *testing.T) {
	_, _, _, err := NewPipeline(nil, "unknown", nil, 187, logger.NewNopLogger())
	assert.Error(t, err)

	refresh, login, preset, err := NewPipeline(nil, usecases.LayoutSummary, valueobjects.DefaultBucketSet(), 187, logger.NewNopLogger())
	require.NoError(t, err)
	assert.NotNil(t, refresh)
	assert.NotNil(t, login)
	assert.Equal(t, usecases.LayoutSummary, preset.Name)
	assert.Len(t, preset.Fields, 4)
}
