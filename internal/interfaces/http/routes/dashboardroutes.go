package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Picoli-Igor/Dash2/internal/interfaces/http/handlers"
)

// DashboardRouteConfig holds dependencies for dashboard routes.
type DashboardRouteConfig struct {
	DashboardHandler *handlers.DashboardHandler
	MetricsHandler   http.Handler    // may be nil
	LoginLimit       gin.HandlerFunc // may be nil
}

// SetupDashboardRoutes configures the page, the JSON API and the probes.
func SetupDashboardRoutes(engine *gin.Engine, cfg *DashboardRouteConfig) {
	engine.GET("/", cfg.DashboardHandler.Page)
	engine.GET("/healthz", cfg.DashboardHandler.Health)

	if cfg.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := engine.Group("/api")
	{
		api.GET("/dashboard", cfg.DashboardHandler.GetDashboard)
		api.POST("/dashboard/refresh", cfg.DashboardHandler.Refresh)
		api.GET("/dashboard/export.xlsx", cfg.DashboardHandler.Export)
		if cfg.LoginLimit != nil {
			api.POST("/login", cfg.LoginLimit, cfg.DashboardHandler.SubmitLogin)
		} else {
			api.POST("/login", cfg.DashboardHandler.SubmitLogin)
		}
	}
}
