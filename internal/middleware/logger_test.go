package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func loggedRequest(t *testing.T, register func(r *gin.Engine), method, target string) observer.LoggedEntry {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	require.Equal(t, 1, logs.Len())
	return logs.All()[0]
}

func TestLoggerAttachesRouteUserAndQuery(t *testing.T) {
	entry := loggedRequest(t, func(r *gin.Engine) {
		r.GET("/admin/pages/:slug", func(c *gin.Context) {
			c.Set(ContextKeyUserID, "u1")
			c.String(http.StatusOK, "ok")
		})
	}, http.MethodGet, "/admin/pages/theme-options?tab=general")

	assert.Equal(t, zap.InfoLevel, entry.Level)
	m := entry.ContextMap()
	assert.Equal(t, "/admin/pages/theme-options", m["path"])
	assert.Equal(t, "/admin/pages/:slug", m["route"])
	assert.Equal(t, "u1", m["user"])
	assert.Equal(t, "tab=general", m["query"])
	assert.Equal(t, int64(http.StatusOK), m["status"])
}

func TestLoggerOmitsAbsentFields(t *testing.T) {
	entry := loggedRequest(t, func(r *gin.Engine) {
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}, http.MethodGet, "/ping")

	m := entry.ContextMap()
	_, hasUser := m["user"]
	assert.False(t, hasUser)
	_, hasQuery := m["query"]
	assert.False(t, hasQuery)
}

func TestLoggerLevelTracksStatus(t *testing.T) {
	warn := loggedRequest(t, func(r *gin.Engine) {
		r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	}, http.MethodGet, "/missing")
	assert.Equal(t, zap.WarnLevel, warn.Level)

	errEntry := loggedRequest(t, func(r *gin.Engine) {
		r.GET("/boom", func(c *gin.Context) {
			_ = c.Error(errors.New("backend down"))
			c.Status(http.StatusInternalServerError)
		})
	}, http.MethodGet, "/boom")
	assert.Equal(t, zap.ErrorLevel, errEntry.Level)
	assert.Contains(t, errEntry.ContextMap()["errors"], "backend down")
}
