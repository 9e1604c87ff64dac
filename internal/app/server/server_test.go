package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrleave/internal/domain/leave"
	"hrleave/internal/domain/leave/memory"
	"hrleave/internal/platform/config"
	"hrleave/internal/platform/metrics"
)

func testRouter(t *testing.T, ready func(context.Context) error) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.AddLeaveType("VL", "Vacation Leave")

	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)
	service := leave.NewService(leave.Deps{
		Repositories: store.Repositories(),
		Tx:           store,
		Activity:     store,
		Eligibility:  store,
		Metrics:      collector,
	})
	cfg := config.Config{MaxBodyBytes: 1 << 20, RequestTimeout: 5 * time.Second}
	return NewRouter(RouterDeps{
		Config:    cfg,
		Leave:     service,
		Collector: collector,
		Gatherer:  registry,
		Ready:     ready,
	}), store
}

func TestHealthAndReadiness(t *testing.T) {
	router, _ := testRouter(t, func(context.Context) error { return errors.New("db down") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLeaveRoutesAndMetrics(t *testing.T) {
	router, store := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave/balances", strings.NewReader(`{"employeeId":3,"leaveTypeId":1,"year":2025,"earned":"10"}`))
	req.Header.Set("X-Actor-ID", "hr.admin")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	activity := store.Activity()
	require.Len(t, activity, 1)
	assert.Equal(t, "hr.admin", activity[0].Actor)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hrleave_http_requests_total{method="POST",status="201"} 1`)
}

func TestRouterWithoutMetrics(t *testing.T) {
	store := memory.New()
	router := NewRouter(RouterDeps{
		Leave: leave.NewService(leave.Deps{
			Repositories: store.Repositories(),
			Tx:           store,
			Activity:     store,
		}),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
