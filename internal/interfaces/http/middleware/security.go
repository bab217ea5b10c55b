package middleware

import "github.com/gin-gonic/gin"

// plotlyCDN serves the chart library used by the dashboard page.
const plotlyCDN = "https://cdn.plot.ly"

// SecurityHeaders returns a middleware that sets security headers
func SecurityHeaders() gin.HandlerFunc {
	csp := "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' " + plotlyCDN + "; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:"

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}
