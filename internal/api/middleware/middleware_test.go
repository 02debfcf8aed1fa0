//go:build !integration && !e2e
// +build !integration,!e2e

package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ragdash/dashboard-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPreflight(t *testing.T) {
	r := testutil.NewTestRouter()
	r.Use(Preflight())
	called := false
	r.GET("/analytics", func(c *gin.Context) {
		called = true
		c.Status(http.StatusTeapot)
	})
	r.NoRoute(func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/analytics", "/no/such/path"} {
		w := testutil.PerformRequest(r, http.MethodOptions, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{}`, w.Body.String())
	}
	assert.False(t, called)

	w := testutil.PerformRequest(r, http.MethodGet, "/analytics", nil)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.True(t, called)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := testutil.NewTestRouter()
	r.Use(RequestID(), Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("division by zero") })

	w := testutil.PerformRequest(r, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error","message":"division by zero"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("Recovered from panic").Len())
}

func TestRequestID(t *testing.T) {
	r := testutil.NewTestRouter()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := testutil.PerformRequest(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	w = testutil.PerformRequest(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := testutil.NewTestRouter()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/filters", func(c *gin.Context) { c.Status(http.StatusOK) })

	testutil.PerformRequest(r, http.MethodGet, "/filters?team=hr", map[string]string{"origin": "https://dash.example.com"})

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/filters", fields["path"])
		assert.Equal(t, "team=hr", fields["query"])
		assert.Equal(t, "https://dash.example.com", fields["origin"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.NotEmpty(t, fields["request_id"])
	}
}
