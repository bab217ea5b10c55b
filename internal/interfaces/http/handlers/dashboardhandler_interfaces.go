package handlers

import (
	"context"
	"io"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
)

// Service interface for DashboardHandler

type dashboardService interface {
	Status(ctx context.Context) (*dto.DashboardStatus, error)
	Latest(ctx context.Context) (*dto.DashboardSnapshot, error)
	Refresh(ctx context.Context, trigger usecases.Trigger) (*dto.DashboardSnapshot, error)
	SubmitLogin(ctx context.Context, req dto.SubmitLoginRequest) (*dto.LoginResult, error)
	TriggerMode() string
	Preset() usecases.Preset
}

// SnapshotExporter writes a snapshot as a downloadable file.
type SnapshotExporter func(w io.Writer, snapshot *dto.DashboardSnapshot) error
