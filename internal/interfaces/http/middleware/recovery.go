package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Picoli-Igor/Dash2/internal/shared/errors"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
	"github.com/Picoli-Igor/Dash2/internal/shared/utils"
)

// Recovery turns a handler panic into a 500. A panic caused by the client
// hanging up (a failed write of the xlsx export, typically) is only logged.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		route := c.FullPath()

		if isBrokenConnection(recovered) {
			log.Warnw("client went away during request",
				"route", route,
				"method", c.Request.Method,
				"error", fmt.Sprint(recovered),
			)
			c.Abort()
			return
		}

		log.Errorw("panic recovered",
			"route", route,
			"method", c.Request.Method,
			"panic", fmt.Sprint(recovered),
			"stack", string(debug.Stack()),
		)
		utils.ErrorResponseWithError(c, apperrors.NewInternalError("Internal server error occurred"))
		c.Abort()
	})
}

func isBrokenConnection(recovered any) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
