package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type observation struct {
	status int
	path   string
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveHTTP(status int, path string, _ time.Duration, _ int) {
	o.mu.Lock()
	o.seen = append(o.seen, observation{status: status, path: path})
	o.mu.Unlock()
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}
	engine := gin.New()
	engine.Use(Metrics(observer))
	engine.GET("/api/charts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/charts/a", "/api/charts/b", "/nope"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.seen, 3)
	assert.Equal(t, observation{http.StatusOK, "/api/charts/:id"}, observer.seen[0])
	assert.Equal(t, observation{http.StatusOK, "/api/charts/:id"}, observer.seen[1])
	assert.Equal(t, observation{http.StatusNotFound, "unmatched"}, observer.seen[2])
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
}

func TestRecovery_BrokenConnection(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/api/dashboard/export.xlsx", func(*gin.Context) {
		panic(&net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/export.xlsx", nil))

	assert.NotContains(t, w.Body.String(), "Internal server error occurred")
}

func TestSecurityHeaders_AllowsChartLibrary(t *testing.T) {
	engine := gin.New()
	engine.Use(SecurityHeaders(), Logger(logger.NewNopLogger()))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://cdn.plot.ly")
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (l stubLimiter) Allow(context.Context, string) (bool, error) {
	return l.allowed, l.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		limiter  stubLimiter
		wantCode int
	}{
		{name: "allowed", limiter: stubLimiter{allowed: true}, wantCode: http.StatusNoContent},
		{name: "denied", limiter: stubLimiter{}, wantCode: http.StatusTooManyRequests},
		{name: "limiter down", limiter: stubLimiter{err: errors.New("redis: connection refused")}, wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.POST("/api/login", RateLimit(tt.limiter, logger.NewNopLogger()), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestLogger_QuietRoutes(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	engine := gin.New()
	engine.Use(Logger(log, "/healthz"))
	engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, buf.String())

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/dashboard?x=1", nil))
	assert.Contains(t, buf.String(), "route=/api/dashboard")
	assert.Contains(t, buf.String(), `query="x=1"`)

	buf.Reset()
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=400")
}
