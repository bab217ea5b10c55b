package dashboard

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
)

type mockRefresh struct {
	ExecuteFunc func(ctx context.Context, params sprint.ConnectionParams, trigger usecases.Trigger) (*dto.DashboardSnapshot, error)
	calls       atomic.Int32
}

func (m *mockRefresh) Execute(ctx context.Context, params sprint.ConnectionParams, trigger usecases.Trigger) (*dto.DashboardSnapshot, error) {
	m.calls.Add(1)
	return m.ExecuteFunc(ctx, params, trigger)
}

type mockLogin struct {
	ExecuteFunc func(ctx context.Context, req dto.SubmitLoginRequest) *dto.LoginResult
}

func (m *mockLogin) Execute(ctx context.Context, req dto.SubmitLoginRequest) *dto.LoginResult {
	return m.ExecuteFunc(ctx, req)
}

type memoryStore struct {
	mu       sync.Mutex
	snapshot *dto.DashboardSnapshot
	saves    int
	LoadErr  error
	SaveErr  error
}

func (s *memoryStore) Load(context.Context) (*dto.DashboardSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.LoadErr
}

func (s *memoryStore) Save(_ context.Context, snapshot *dto.DashboardSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.snapshot = snapshot
	s.saves++
	return nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []*dto.DashboardSnapshot
}

func (p *mockPublisher) PublishSnapshot(_ context.Context, snapshot *dto.DashboardSnapshot) error {
	p.mu.Lock()
	p.published = append(p.published, snapshot)
	p.mu.Unlock()
	return nil
}

func readySnapshot(total int) *dto.DashboardSnapshot {
	return &dto.DashboardSnapshot{
		Layout:     usecases.LayoutSprint,
		SprintName: "Sprint 187",
		Outcome:    dto.OutcomeReady,
		Summary:    dto.SummaryCounts{Total: total},
	}
}
