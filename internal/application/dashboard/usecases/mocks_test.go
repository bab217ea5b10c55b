package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint/valueobjects"
)

type mockTicketSource struct {
	FetchSprintTicketsFunc func(ctx context.Context, params sprint.ConnectionParams, sprintID int) (sprint.ResultSet, error)

	mu    sync.Mutex
	calls int
}

func (m *mockTicketSource) FetchSprintTickets(ctx context.Context, params sprint.ConnectionParams, sprintID int) (sprint.ResultSet, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.FetchSprintTicketsFunc != nil {
		return m.FetchSprintTicketsFunc(ctx, params, sprintID)
	}
	return sprint.ResultSet{}, nil
}

func (m *mockTicketSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type observedRefresh struct {
	trigger Trigger
	outcome dto.Outcome
	tickets int
}

type mockObserver struct {
	observed []observedRefresh
}

func (m *mockObserver) ObserveRefresh(trigger Trigger, outcome dto.Outcome, _ time.Duration, tickets int) {
	m.observed = append(m.observed, observedRefresh{trigger: trigger, outcome: outcome, tickets: tickets})
}

type mockStateRecorder struct {
	states []dto.RefreshState
}

func (m *mockStateRecorder) SetState(state dto.RefreshState) {
	m.states = append(m.states, state)
}

// fixtureResultSet has status codes {3:2, 8:3, 9:1, 7:4}.
func fixtureResultSet() sprint.ResultSet {
	type group struct {
		code        valueobjects.StatusCode
		description string
		n           int
	}
	groups := []group{
		{3, "Não Iniciado", 2},
		{8, "Em Execução", 3},
		{9, "Em Teste", 1},
		{7, "Concluído", 4},
	}
	users := []string{"Ana", "Bruno", "Carla"}
	responsibles := []string{"Diego", "Érica"}

	rs := sprint.ResultSet{}
	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			n := len(rs)
			rs = append(rs, sprint.TicketRecord{
				ID:                int64(n + 1),
				Code:              fmt.Sprintf("TK-%03d", n+1),
				AssignedUser:      users[n%len(users)],
				ResponsibleUser:   responsibles[n%len(responsibles)],
				StatusDescription: g.description,
				StatusCode:        g.code,
				SprintName:        "Sprint 187",
			})
		}
	}
	return rs
}
