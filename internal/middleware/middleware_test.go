package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(time.Hour).Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(clientID string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if clientID != "" {
			req.Header.Set("X-Client-ID", clientID)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusBadRequest, get(""))
	require.Equal(t, http.StatusOK, get("c1"))
	require.Equal(t, http.StatusTooManyRequests, get("c1"))
	// other clients are unaffected
	require.Equal(t, http.StatusOK, get("c2"))
}
