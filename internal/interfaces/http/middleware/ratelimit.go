package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Picoli-Igor/Dash2/internal/infrastructure/ratelimit"
	"github.com/Picoli-Igor/Dash2/internal/shared/errors"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
	"github.com/Picoli-Igor/Dash2/internal/shared/utils"
)

// RateLimit enforces limiter per client IP. When the limiter itself fails
// the request is let through.
func RateLimit(limiter ratelimit.Limiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), clientIP)
		if err != nil {
			log.Warnw("rate limiter unavailable",
				"client_ip", clientIP,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			log.Infow("rate limit exceeded",
				"client_ip", clientIP,
				"path", c.FullPath(),
			)
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("too many login attempts, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
