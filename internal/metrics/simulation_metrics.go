// Package metrics defines Monte Carlo specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Simulation counter vectors
var (
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_runs_total",
		Help:      "Total number of Monte Carlo runs by trial count and status",
	}, []string{"trials", "status"})
	SimulationsSupersededTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_superseded_total",
		Help:      "Total number of simulation results dropped because newer input arrived",
	})
	SimulationCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_cache_requests_total",
		Help:      "Seeded simulation cache lookups by result",
	}, []string{"result"})
)

// Simulation histograms
var (
	SimulationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of Monte Carlo runs in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"trials"})
	SimulationSuccessRate = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_success_rate_percent",
		Help:      "Distribution of simulated challenge success rates",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})
)

// RecordSimulationRun records a Monte Carlo run.
// status should be one of: "success", "invalid_input", "cancelled", "error"
func RecordSimulationRun(trials, status string, durationSeconds float64) {
	SimulationRunsTotal.WithLabelValues(trials, status).Inc()
	if status == "success" {
		SimulationDuration.WithLabelValues(trials).Observe(durationSeconds)
	}
}

// RecordSuccessRate observes the success rate of a completed run.
func RecordSuccessRate(rate float64) {
	SimulationSuccessRate.Observe(rate)
}

// RecordSuperseded records a dropped stale result.
func RecordSuperseded() {
	SimulationsSupersededTotal.Inc()
}

// RecordCacheLookup records a simulation cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SimulationCacheRequestsTotal.WithLabelValues(result).Inc()
}
