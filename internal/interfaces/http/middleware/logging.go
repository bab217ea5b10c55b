package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

// Logger logs every served request once. Successful requests to quietRoutes
// (probes, metrics scrapes) are logged at debug level only.
func Logger(log logger.Interface, quietRoutes ...string) gin.HandlerFunc {
	quiet := make(map[string]bool, len(quietRoutes))
	for _, route := range quietRoutes {
		quiet[route] = true
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			args = append(args, "query", query)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", args...)
		case status >= 400:
			log.Warnw("request rejected", args...)
		case quiet[route]:
			log.Debugw("request served", args...)
		default:
			log.Infow("request served", args...)
		}
	}
}
