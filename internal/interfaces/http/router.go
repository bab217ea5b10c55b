package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Picoli-Igor/Dash2/internal/infrastructure/config"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/export"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/adapters"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/http/handlers"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/http/middleware"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/http/routes"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
	"github.com/Picoli-Igor/Dash2/internal/shared/services/markdown"
)

// Router represents the HTTP router configuration
type Router struct {
	engine           *gin.Engine
	stack            *adapters.DashboardStack
	dashboardHandler *handlers.DashboardHandler
	log              logger.Interface
}

// NewRouter creates a new HTTP router on top of an assembled dashboard.
func NewRouter(stack *adapters.DashboardStack, cfg *config.Config, log logger.Interface) (*Router, error) {
	notes, err := renderNotes(cfg.Dashboard.Notes)
	if err != nil {
		return nil, err
	}

	dashboardHandler := handlers.NewDashboardHandler(
		stack.Service,
		export.WriteXLSX,
		handlers.PageOptions{
			Title:           cfg.Dashboard.Title,
			Notes:           notes,
			RefreshInterval: cfg.Dashboard.RefreshInterval,
		},
		log,
	)

	return &Router{
		engine:           gin.New(),
		stack:            stack,
		dashboardHandler: dashboardHandler,
		log:              log,
	}, nil
}

func renderNotes(notes string) (template.HTML, error) {
	if notes == "" {
		return "", nil
	}
	return markdown.NewNotesRenderer().Render(notes)
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log, "/healthz", "/metrics"))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.SecurityHeaders())

	var metricsHandler http.Handler
	if r.stack.Metrics != nil {
		r.engine.Use(middleware.Metrics(r.stack.Metrics))
		metricsHandler = r.stack.Metrics.Handler()
	}

	var loginLimit gin.HandlerFunc
	if r.stack.LoginLimiter != nil {
		loginLimit = middleware.RateLimit(r.stack.LoginLimiter, r.log)
	}

	routes.SetupDashboardRoutes(r.engine, &routes.DashboardRouteConfig{
		DashboardHandler: r.dashboardHandler,
		MetricsHandler:   metricsHandler,
		LoginLimit:       loginLimit,
	})
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
