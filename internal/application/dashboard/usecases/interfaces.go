package usecases

import (
	"time"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
)

// Trigger names the cause of a fetch, for logs and metrics.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
	TriggerLogin  Trigger = "login"
	TriggerCLI    Trigger = "cli"
)

// RefreshObserver receives the result of every pipeline run.
type RefreshObserver interface {
	ObserveRefresh(trigger Trigger, outcome dto.Outcome, duration time.Duration, tickets int)
}

// StateRecorder tracks the pipeline state of the timer-driven dashboard.
type StateRecorder interface {
	SetState(state dto.RefreshState)
}

type nopObserver struct{}

func (nopObserver) ObserveRefresh(Trigger, dto.Outcome, time.Duration, int) {}

type nopStateRecorder struct{}

func (nopStateRecorder) SetState(dto.RefreshState) {}
