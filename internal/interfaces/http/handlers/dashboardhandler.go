package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
	"github.com/Picoli-Igor/Dash2/internal/shared/biztime"
	"github.com/Picoli-Igor/Dash2/internal/shared/errors"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
	"github.com/Picoli-Igor/Dash2/internal/shared/utils"
	"github.com/Picoli-Igor/Dash2/internal/shared/version"
)

//go:embed views/*.html.tmpl
var views embed.FS

var pageTemplate = template.Must(template.ParseFS(views, "views/dashboard.html.tmpl"))

const exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PageOptions are the static parts of the dashboard page.
type PageOptions struct {
	Title           string
	Notes           template.HTML
	RefreshInterval time.Duration
}

type pageData struct {
	Title          string
	Notes          template.HTML
	Mode           string
	Layout         string
	RefreshSeconds int
	Fields         []dto.SummaryField
	Charts         []dto.ChartSpec
	ErrorMessage   string
}

// DashboardHandler serves the dashboard page and its JSON API.
type DashboardHandler struct {
	service  dashboardService
	exporter SnapshotExporter
	page     PageOptions
	logger   logger.Interface
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	service dashboardService,
	exporter SnapshotExporter,
	page PageOptions,
	logger logger.Interface,
) *DashboardHandler {
	return &DashboardHandler{
		service:  service,
		exporter: exporter,
		page:     page,
		logger:   logger,
	}
}

// Page handles GET /
func (h *DashboardHandler) Page(c *gin.Context) {
	preset := h.service.Preset()
	data := pageData{
		Title:          h.page.Title,
		Notes:          h.page.Notes,
		Mode:           h.service.TriggerMode(),
		Layout:         preset.Name,
		RefreshSeconds: int(h.page.RefreshInterval / time.Second),
		Fields:         preset.FillFields(""),
		Charts:         preset.BlankCharts(),
		ErrorMessage:   dto.LoginErrorMessage,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Errorw("failed to render dashboard page", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", status)
}

// Refresh handles POST /api/dashboard/refresh. A failed fetch still answers
// 200 with the failed snapshot; its outcome carries the failure.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	snapshot, err := h.service.Refresh(c.Request.Context(), usecases.TriggerManual)
	if snapshot == nil {
		if err == nil {
			err = errors.NewInternalError("refresh produced no snapshot")
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "dashboard refreshed"
	if err != nil {
		message = "dashboard refresh failed"
	}
	utils.SuccessResponse(c, http.StatusOK, message, snapshot)
}

// SubmitLogin handles POST /api/login with a JSON or form body. Only an
// unparsable body is a 400; bad credentials come back as the error state.
func (h *DashboardHandler) SubmitLogin(c *gin.Context) {
	var req dto.SubmitLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid login request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.service.SubmitLogin(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Export handles GET /api/dashboard/export.xlsx
func (h *DashboardHandler) Export(c *gin.Context) {
	snapshot, err := h.service.Latest(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if snapshot.Outcome == dto.OutcomePending {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("no snapshot available yet"))
		return
	}

	var buf bytes.Buffer
	if err := h.exporter(&buf, snapshot); err != nil {
		h.logger.Errorw("failed to export snapshot", "error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to export snapshot"))
		return
	}

	filename := fmt.Sprintf("dashboard-%s.xlsx", biztime.FileStamp(snapshot.FetchedAt))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, exportContentType, buf.Bytes())
}

// Health handles GET /healthz
func (h *DashboardHandler) Health(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"status":  "ok",
		"mode":    h.service.TriggerMode(),
		"state":   status.State,
		"outcome": status.Snapshot.Outcome,
		"version": version.Current(),
	})
}
