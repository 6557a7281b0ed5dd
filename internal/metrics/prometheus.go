// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the game library tracker.
var (
	// HTTP.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gametracker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		},
		[]string{"method", "route"},
	)

	// Writes.
	RecordsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_records_written_total",
			Help: "Total number of game and review writes",
		},
		[]string{"resource", "operation"},
	)

	// Library gauges, refreshed whenever library statistics are computed.
	OrphanedReviews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametracker_orphaned_reviews",
			Help: "Number of reviews referencing a game that no longer exists",
		},
	)

	LibraryGames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametracker_library_games",
			Help: "Number of games in the library",
		},
	)

	LibraryCompletionPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametracker_library_completion_percent",
			Help: "Percentage of games marked completed",
		},
	)

	// Stats cache.
	StatsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_stats_cache_total",
			Help: "Statistics cache lookups by result",
		},
		[]string{"result"},
	)

	// Audit job.
	AuditRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_audit_runs_total",
			Help: "Total audit job executions",
		},
		[]string{"status"},
	)

	AuditDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gametracker_audit_duration_seconds",
			Help:    "Time taken to execute the audit job",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
	)

	AuditLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametracker_audit_last_run_timestamp",
			Help: "Unix timestamp of last audit run",
		},
	)

	// Achievements.
	AchievementsUnlocked = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gametracker_achievements_unlocked",
			Help: "Whether each achievement is currently unlocked (1) or not (0)",
		},
		[]string{"achievement"},
	)
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// RecordHTTPRequest records a handled request and its latency.
func RecordHTTPRequest(method, route string, status int, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(seconds)
}

// RecordWrite records a create, update or delete of a resource.
func RecordWrite(resource, operation string) {
	RecordsWrittenTotal.WithLabelValues(resource, operation).Inc()
}

// SetLibraryGauges publishes the headline library numbers.
func SetLibraryGauges(games int, completionPercent float64, orphans int) {
	LibraryGames.Set(float64(games))
	LibraryCompletionPercent.Set(completionPercent)
	OrphanedReviews.Set(float64(orphans))
}

// RecordCacheResult records a statistics cache lookup.
func RecordCacheResult(result string) {
	StatsCacheTotal.WithLabelValues(result).Inc()
}

// RecordAuditRun records an audit job execution.
func RecordAuditRun(status string) {
	AuditRunsTotal.WithLabelValues(status).Inc()
}

// ObserveAuditDuration observes the duration of an audit job.
func ObserveAuditDuration(seconds float64) {
	AuditDurationSeconds.Observe(seconds)
}

// SetAuditLastRun sets the timestamp of the last audit run.
func SetAuditLastRun() {
	AuditLastRunTimestamp.SetToCurrentTime()
}

// SetAchievementUnlocked publishes the unlock state of an achievement.
func SetAchievementUnlocked(name string, unlocked bool) {
	v := 0.0
	if unlocked {
		v = 1
	}
	AchievementsUnlocked.WithLabelValues(name).Set(v)
}
