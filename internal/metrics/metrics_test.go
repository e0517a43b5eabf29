package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordMetricsComputation(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(MetricsComputationsTotal.WithLabelValues("unreachable"))

	RecordMetricsComputation("unreachable")

	assert.Equal(t, before+1, testutil.ToFloat64(MetricsComputationsTotal.WithLabelValues("unreachable")))
}

func TestRecordSimulationRun(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SimulationRunsTotal.WithLabelValues("1000", "success"))

	assert.NotPanics(t, func() {
		RecordSimulationRun("1000", "success", 0.12)
		RecordSimulationRun("1000", "cancelled", 0)
		RecordSuccessRate(61.2)
	})
	assert.Equal(t, before+1, testutil.ToFloat64(SimulationRunsTotal.WithLabelValues("1000", "success")))
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(SimulationCacheRequestsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(SimulationCacheRequestsTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(SimulationCacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(SimulationCacheRequestsTotal.WithLabelValues("miss")))
}

func TestStorageRecorders(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PreferenceWritesTotal.WithLabelValues("riskStyle", "failure"))

	RecordPreferenceWrite("riskStyle", errors.New("disk full"))
	RecordPreferenceCorrupt("traderProfile")
	RecordRetentionSweep(3)
	RecordHistoryWrite(nil)
	RecordCalendarFetch(nil, 0.2)

	assert.Equal(t, before+1, testutil.ToFloat64(PreferenceWritesTotal.WithLabelValues("riskStyle", "failure")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(RetentionSweepDeletedTotal), 3.0)
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordSuperseded()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "challenge_blueprint_simulations_superseded_total"))
}
