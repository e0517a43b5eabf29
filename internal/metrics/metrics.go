// Package metrics provides the centralized Prometheus registry for the blueprint services.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "challenge_blueprint"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MetricsComputationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metrics_computations_total",
		Help:      "Total number of deterministic calculator runs by status",
	}, []string{"status"})
	GoalPlansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "goal_plans_total",
		Help:      "Total number of goal calculator runs by status",
	}, []string{"status"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of API requests by route and status code",
	}, []string{"route", "code"})
)

// Gauge metrics
var (
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of open interactive sessions",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(MetricsComputationsTotal)
		registry.MustRegister(GoalPlansTotal)
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(ActiveSessions)

		// Simulation metrics
		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(SimulationSuccessRate)
		registry.MustRegister(SimulationsSupersededTotal)
		registry.MustRegister(SimulationCacheRequestsTotal)

		// Storage metrics
		registry.MustRegister(PreferenceWritesTotal)
		registry.MustRegister(PreferenceCorruptTotal)
		registry.MustRegister(RetentionSweepDeletedTotal)
		registry.MustRegister(HistoryRecordsTotal)
		registry.MustRegister(CalendarFetchesTotal)
		registry.MustRegister(CalendarFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMetricsComputation records one deterministic calculator outcome.
// status is one of "ok", "unreachable", "invalid_input".
func RecordMetricsComputation(status string) {
	MetricsComputationsTotal.WithLabelValues(status).Inc()
}

// RecordGoalPlan records one goal calculator outcome.
func RecordGoalPlan(status string) {
	GoalPlansTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records an API request.
func RecordHTTPRequest(route, code string) {
	HTTPRequestsTotal.WithLabelValues(route, code).Inc()
}

// SessionOpened increments the active sessions gauge.
func SessionOpened() {
	ActiveSessions.Inc()
}

// SessionClosed decrements the active sessions gauge.
func SessionClosed() {
	ActiveSessions.Dec()
}
