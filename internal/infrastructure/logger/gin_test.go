package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-test")
		c.Next()
	})
	r.Use(GinMiddleware(zap.New(core)))
	return r, logs
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	r, logs := newTestRouter(t)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?verbose=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-test", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, "verbose=1", fields["query"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestGinMiddleware_StatusLevels(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		r, logs := newTestRouter(t)
		status := tt.status
		r.GET("/x", func(c *gin.Context) {
			c.Status(status)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, tt.want, entries[0].Level.String(), "status %d", tt.status)
	}
}

func TestGinMiddleware_SeedsRequestContext(t *testing.T) {
	r, logs := newTestRouter(t)

	var gotRequestID string
	r.GET("/ctx", func(c *gin.Context) {
		ctx := c.Request.Context()
		gotRequestID = RequestID(ctx)
		L(ctx).Info("from handler")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ctx", nil))

	assert.Equal(t, "req-test", gotRequestID)

	// Handler entry plus the request access entry, both through the
	// observed core.
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "from handler", entries[0].Message)
	assert.Equal(t, "req-test", entries[0].ContextMap()["request_id"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) {
		panic("exploded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0].Message)
	assert.Equal(t, "exploded", entries[0].ContextMap()["panic"])
}
