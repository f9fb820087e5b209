package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoach/quiz-backend/internal/health"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func newHealthRouter(dbErr, cacheErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)

	checker := health.NewChecker(
		health.Target{Pinger: stubPinger{err: dbErr}, Source: "local", Host: "localhost"},
		health.Target{Pinger: stubPinger{err: cacheErr}, Source: "managed", Host: "redis.upstash.io"},
		time.Second,
	)
	h := NewHealthHandler(checker)

	router := gin.New()
	router.GET("/health", h.Live)
	router.GET("/health/db", h.Database)
	router.GET("/health/redis", h.Redis)
	router.GET("/health/all", h.All)

	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) (int, map[string]json.RawMessage) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return w.Code, body
}

func TestHealthLive(t *testing.T) {
	router := newHealthRouter(nil, nil)

	code, body := doRequest(t, router, "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"ok"`, string(body["status"]))
}

func TestHealthAllHealthy(t *testing.T) {
	router := newHealthRouter(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/all", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		Status   string `json:"status"`
		Database struct {
			Status string `json:"status"`
			Source string `json:"source"`
			Host   string `json:"host"`
		} `json:"database"`
		Redis struct {
			Status string `json:"status"`
			Source string `json:"source"`
			Host   string `json:"host"`
		} `json:"redis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, "ok", report.Database.Status)
	assert.Equal(t, "local", report.Database.Source)
	assert.Equal(t, "localhost", report.Database.Host)
	assert.Equal(t, "ok", report.Redis.Status)
	assert.Equal(t, "managed", report.Redis.Source)
	assert.Equal(t, "redis.upstash.io", report.Redis.Host)

	// A healthy probe carries no error field at all.
	assert.NotContains(t, w.Body.String(), `"error"`)
}

// Degraded deployments still answer 200. The body carries the failure,
// the transport never does.
func TestHealthAllAlways200(t *testing.T) {
	dbDown := errors.New("connection refused")
	cacheDown := errors.New("no route to host")

	cases := []struct {
		name     string
		dbErr    error
		cacheErr error
		overall  string
	}{
		{"both up", nil, nil, "ok"},
		{"db down", dbDown, nil, "degraded"},
		{"cache down", nil, cacheDown, "degraded"},
		{"both down", dbDown, cacheDown, "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newHealthRouter(tc.dbErr, tc.cacheErr)

			code, body := doRequest(t, router, "/health/all")

			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `"`+tc.overall+`"`, string(body["status"]))
		})
	}
}

func TestHealthDatabaseFailure(t *testing.T) {
	router := newHealthRouter(errors.New("connection refused"), nil)

	code, body := doRequest(t, router, "/health/db")

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"error"`, string(body["status"]))
	assert.JSONEq(t, `"connection refused"`, string(body["error"]))
	assert.JSONEq(t, `"local"`, string(body["source"]))
}

func TestHealthRedisFailure(t *testing.T) {
	router := newHealthRouter(nil, errors.New("EOF"))

	code, body := doRequest(t, router, "/health/redis")

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"error"`, string(body["status"]))
	assert.JSONEq(t, `"managed"`, string(body["source"]))
	assert.JSONEq(t, `"redis.upstash.io"`, string(body["host"]))
}
