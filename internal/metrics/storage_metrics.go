// Package metrics defines storage and integration metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PreferenceWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preference_writes_total",
		Help:      "Total number of preference writes by key and status",
	}, []string{"key", "status"})
	PreferenceCorruptTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preference_corrupt_total",
		Help:      "Stored preferences discarded because they could not be parsed or validated",
	}, []string{"key"})
	RetentionSweepDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retention_sweep_deleted_total",
		Help:      "Total number of stale preference rows removed by the retention sweep",
	})
	HistoryRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_records_total",
		Help:      "Simulation runs written to the history sink by status",
	}, []string{"status"})
	CalendarFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calendar_fetches_total",
		Help:      "Economic calendar fetches by status",
	}, []string{"status"})
	CalendarFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "calendar_fetch_duration_seconds",
		Help:      "Latency of economic calendar fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordPreferenceWrite records a preference write.
func RecordPreferenceWrite(key string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	PreferenceWritesTotal.WithLabelValues(key, status).Inc()
}

// RecordPreferenceCorrupt records a discarded stored preference.
func RecordPreferenceCorrupt(key string) {
	PreferenceCorruptTotal.WithLabelValues(key).Inc()
}

// RecordRetentionSweep records rows removed by a sweep.
func RecordRetentionSweep(deleted int64) {
	RetentionSweepDeletedTotal.Add(float64(deleted))
}

// RecordHistoryWrite records a history sink write.
func RecordHistoryWrite(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	HistoryRecordsTotal.WithLabelValues(status).Inc()
}

// RecordCalendarFetch records an economic calendar fetch.
func RecordCalendarFetch(err error, durationSeconds float64) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	CalendarFetchesTotal.WithLabelValues(status).Inc()
	CalendarFetchDuration.Observe(durationSeconds)
}
