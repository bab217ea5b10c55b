package utils

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Picoli-Igor/Dash2/internal/shared/errors"
)

func TestErrorResponseWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantType    string
		wantMessage string
	}{
		{name: "rate limited", err: errors.NewRateLimitedError("slow down"), wantStatus: http.StatusTooManyRequests, wantType: "rate_limited", wantMessage: "slow down"},
		{name: "unavailable", err: errors.NewUnavailableError("store down"), wantStatus: http.StatusServiceUnavailable, wantType: "service_unavailable", wantMessage: "store down"},
		{name: "plain error hidden", err: stderrors.New("dial tcp 10.0.0.5: refused"), wantStatus: http.StatusInternalServerError, wantType: "internal_error", wantMessage: "Internal server error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponseWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}
