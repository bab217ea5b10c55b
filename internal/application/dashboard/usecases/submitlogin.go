package usecases

import (
	"context"
	"strings"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
	"github.com/Picoli-Igor/Dash2/internal/shared/utils"
)

// SubmitLoginExecutor handles one submission of the login form.
type SubmitLoginExecutor interface {
	Execute(ctx context.Context, req dto.SubmitLoginRequest) *dto.LoginResult
}

// SubmitLoginUseCase drives the login-form dashboard:
//
//	AwaitingInput --submit--> Validating --rows--> Showing
//	                                     --invalid/none/failure--> Error
//
// Error is not terminal; the next submission starts over. Nothing is kept
// between submissions.
type SubmitLoginUseCase struct {
	refresh RefreshDashboardExecutor
	preset  Preset
	logger  logger.Interface
}

func NewSubmitLoginUseCase(refresh RefreshDashboardExecutor, preset Preset, logger logger.Interface) *SubmitLoginUseCase {
	return &SubmitLoginUseCase{
		refresh: refresh,
		preset:  preset,
		logger:  logger,
	}
}

func (uc *SubmitLoginUseCase) Execute(ctx context.Context, req dto.SubmitLoginRequest) *dto.LoginResult {
	if req.Attempts <= 0 {
		return &dto.LoginResult{
			State:       dto.LoginStateAwaitingInput,
			FormVisible: true,
			Fields:      uc.preset.FillFields(""),
			Charts:      uc.preset.BlankCharts(),
		}
	}

	if err := utils.ValidateStruct(req); err != nil {
		uc.logger.Warnw("login rejected",
			"attempts", req.Attempts,
			"error", err,
		)
		return uc.failed(dto.LoginReasonInvalidInput)
	}

	params := sprint.ConnectionParams{
		Server:   strings.TrimSpace(req.Server),
		Database: strings.TrimSpace(req.Database),
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}

	uc.logger.Infow("login submitted",
		"attempts", req.Attempts,
		"params", params,
	)

	snapshot, err := uc.refresh.Execute(ctx, params, TriggerLogin)
	if err != nil {
		return uc.failed(dto.LoginReasonSourceUnavailable)
	}
	if snapshot.Outcome == dto.OutcomeEmpty {
		return uc.failed(dto.LoginReasonNoTickets)
	}

	return &dto.LoginResult{
		State:          dto.LoginStateShowing,
		ContentVisible: true,
		SprintName:     snapshot.SprintName,
		Fields:         snapshot.Fields,
		Charts:         snapshot.Charts,
	}
}

func (uc *SubmitLoginUseCase) failed(reason dto.LoginFailureReason) *dto.LoginResult {
	return &dto.LoginResult{
		State:       dto.LoginStateError,
		Reason:      reason,
		FormVisible: true,
		SprintName:  dto.LoginErrorMessage,
		Fields:      uc.preset.FillFields(dto.LoginErrorValue),
		Charts:      uc.preset.BlankCharts(),
	}
}
