package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshotAggregates(t *testing.T) {
	metrics := NewMetricsService()

	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RecordCacheOperation(false, time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/schedules/weekly", http.StatusOK, 4*time.Millisecond)
	metrics.RecordRelocation("moved")
	metrics.RecordRelocation("pending")
	metrics.RecordApply("success", 12)
	metrics.RecordApply("failure", 0)
	metrics.SetActiveDrafts(3)

	snapshot := metrics.Snapshot()
	assert.InDelta(t, 2.0/3.0, snapshot.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), snapshot.RequestsTotal)
	assert.InDelta(t, 4.0, snapshot.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.Relocations)
	assert.Equal(t, uint64(1), snapshot.Applies)
	assert.Equal(t, 3, snapshot.ActiveDrafts)
}

func TestMetricsServiceHandlerExposesSchedulerCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordExport("ics")
	metrics.ObserveConflicts(2)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `format="ics"`))

	var nilMetrics *MetricsService
	assert.NotPanics(t, func() { nilMetrics.RecordRelocation("moved") })
}
