package audithandler

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrleave/internal/domain/audit"
)

type fakeLister struct {
	events  []audit.Event
	listErr error
	filter  audit.Filter
	details bool
	limit   int
}

func (f *fakeLister) Count(context.Context, audit.Filter) (int, error) {
	return len(f.events), nil
}

func (f *fakeLister) List(_ context.Context, filter audit.Filter, includeDetails bool, limit, _ int) ([]audit.Event, error) {
	f.filter = filter
	f.details = includeDetails
	f.limit = limit
	return f.events, f.listErr
}

func newRouter(l Lister) http.Handler {
	r := chi.NewRouter()
	NewHandler(l, nil).RegisterRoutes(r)
	return r
}

func TestListEventsPassesFilter(t *testing.T) {
	id := int64(9)
	lister := &fakeLister{events: []audit.Event{{ID: 1, Actor: "hr.clerk", Action: "leave_balance.create", EntityType: "leave_balance", EntityID: &id}}}

	rec := httptest.NewRecorder()
	newRouter(lister).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity?entityType=leave_balance&entityId=9&includeDetails=true&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, audit.Filter{EntityType: "leave_balance", EntityID: 9}, lister.filter)
	assert.True(t, lister.details)
	assert.Equal(t, 10, lister.limit)
	assert.Contains(t, rec.Body.String(), "leave_balance.create")
}

func TestListEventsRejectsBadEntityID(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeLister{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity?entityId=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEventsFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeLister{listErr: errors.New("db down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "activity_list_failed")
}

func TestExportEvents(t *testing.T) {
	lister := &fakeLister{events: []audit.Event{
		{ID: 2, Actor: "system", Action: "leave_balance.generate", EntityType: "leave_balance", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}

	rec := httptest.NewRecorder()
	newRouter(lister).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, exportLimit, lister.limit)
	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2", "system", "leave_balance.generate", "leave_balance", "", "", "2025-01-01T00:00:00Z"}, rows[1])
}
