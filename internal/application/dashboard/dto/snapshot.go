package dto

import "time"

// Outcome tells an empty sprint apart from a failed fetch.
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeReady   Outcome = "ready"
	OutcomeEmpty   Outcome = "empty"
	OutcomeFailed  Outcome = "failed"
)

type RefreshState string

const (
	RefreshStateIdle      RefreshState = "idle"
	RefreshStateFetching  RefreshState = "fetching"
	RefreshStateRendering RefreshState = "rendering"
)

// DashboardSnapshot is every output of one refresh. It is published as a
// whole so readers never see summary and charts from different fetches.
type DashboardSnapshot struct {
	Layout     string         `json:"layout" yaml:"layout"`
	SprintName string         `json:"sprint_name" yaml:"sprint_name"`
	Outcome    Outcome        `json:"outcome" yaml:"outcome"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Summary    SummaryCounts  `json:"summary" yaml:"summary"`
	Fields     []SummaryField `json:"fields" yaml:"fields"`
	Charts     []ChartSpec    `json:"charts" yaml:"charts"`
	FetchedAt  time.Time      `json:"fetched_at" yaml:"fetched_at"`
	DurationMS int64          `json:"duration_ms" yaml:"duration_ms"`
}

// PendingSnapshot is served before the first refresh completes.
func PendingSnapshot(layout string) *DashboardSnapshot {
	return &DashboardSnapshot{
		Layout:  layout,
		Outcome: OutcomePending,
		Fields:  []SummaryField{},
		Charts:  []ChartSpec{},
	}
}

// DashboardStatus is the snapshot plus the live refresh state.
type DashboardStatus struct {
	State    RefreshState       `json:"state"`
	Snapshot *DashboardSnapshot `json:"snapshot"`
}
