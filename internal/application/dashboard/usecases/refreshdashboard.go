package usecases

import (
	"context"
	"time"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/shared/biztime"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

// RefreshDashboardExecutor runs the fetch, aggregate and chart pipeline once.
type RefreshDashboardExecutor interface {
	Execute(ctx context.Context, params sprint.ConnectionParams, trigger Trigger) (*dto.DashboardSnapshot, error)
}

// RefreshDashboardUseCase always returns a snapshot. On failure the snapshot
// is tagged OutcomeFailed and the source error is returned alongside it.
type RefreshDashboardUseCase struct {
	source     sprint.TicketSource
	summarizer *Summarizer
	builder    *ChartBuilder
	preset     Preset
	sprintID   int
	observer   RefreshObserver
	state      StateRecorder
	logger     logger.Interface
}

func NewRefreshDashboardUseCase(
	source sprint.TicketSource,
	summarizer *Summarizer,
	builder *ChartBuilder,
	preset Preset,
	sprintID int,
	logger logger.Interface,
) *RefreshDashboardUseCase {
	return &RefreshDashboardUseCase{
		source:     source,
		summarizer: summarizer,
		builder:    builder,
		preset:     preset,
		sprintID:   sprintID,
		observer:   nopObserver{},
		state:      nopStateRecorder{},
		logger:     logger,
	}
}

// SetObserver sets the metrics sink.
func (uc *RefreshDashboardUseCase) SetObserver(observer RefreshObserver) {
	if observer != nil {
		uc.observer = observer
	}
}

// SetStateRecorder sets where Fetching/Rendering/Idle transitions go.
func (uc *RefreshDashboardUseCase) SetStateRecorder(state StateRecorder) {
	if state != nil {
		uc.state = state
	}
}

func (uc *RefreshDashboardUseCase) Execute(ctx context.Context, params sprint.ConnectionParams, trigger Trigger) (*dto.DashboardSnapshot, error) {
	start := time.Now()
	defer uc.state.SetState(dto.RefreshStateIdle)

	uc.state.SetState(dto.RefreshStateFetching)
	rs, err := uc.source.FetchSprintTickets(ctx, params, uc.sprintID)

	snapshot := &dto.DashboardSnapshot{
		Layout:    uc.preset.Name,
		FetchedAt: biztime.NowUTC(),
	}

	if err != nil {
		uc.logger.Errorw("dashboard refresh failed",
			"trigger", trigger,
			"sprint_id", uc.sprintID,
			"params", params,
			"error", err,
		)
		snapshot.Outcome = dto.OutcomeFailed
		snapshot.Error = err.Error()
		snapshot.Summary = uc.summarizer.Summarize(nil)
		snapshot.Fields = uc.preset.FillFields(dto.LoginErrorValue)
		snapshot.Charts = uc.preset.BlankCharts()
		uc.finish(snapshot, trigger, start, 0)
		return snapshot, err
	}

	uc.state.SetState(dto.RefreshStateRendering)
	summary := uc.summarizer.Summarize(rs)
	snapshot.SprintName = rs.SprintName()
	snapshot.Summary = summary
	snapshot.Fields = uc.preset.RenderFields(summary)
	snapshot.Charts = uc.builder.BuildAll(rs, uc.preset.Charts)
	snapshot.Outcome = dto.OutcomeReady
	if rs.IsEmpty() {
		snapshot.Outcome = dto.OutcomeEmpty
	}

	uc.finish(snapshot, trigger, start, rs.Len())

	uc.logger.Infow("dashboard refreshed",
		"trigger", trigger,
		"sprint", snapshot.SprintName,
		"outcome", snapshot.Outcome,
		"tickets", summary.Total,
		"duration_ms", snapshot.DurationMS,
	)
	return snapshot, nil
}

func (uc *RefreshDashboardUseCase) finish(snapshot *dto.DashboardSnapshot, trigger Trigger, start time.Time, tickets int) {
	elapsed := time.Since(start)
	snapshot.DurationMS = elapsed.Milliseconds()
	uc.observer.ObserveRefresh(trigger, snapshot.Outcome, elapsed, tickets)
}
