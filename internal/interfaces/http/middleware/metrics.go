package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records one finished request.
type HTTPObserver interface {
	ObserveHTTP(status int, path string, latency time.Duration, size int)
}

// Metrics reports every request to observer, labelled by route template so
// unknown paths share one series.
func Metrics(observer HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		observer.ObserveHTTP(c.Writer.Status(), path, time.Since(start), c.Writer.Size())
	}
}
