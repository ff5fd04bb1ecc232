package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Chat turns
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "chat_turns_total",
			Help:      "Chat turn attempts by outcome",
		},
		[]string{"principal", "status"},
	)

	// Completion gateway latency
	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "gateway_duration_seconds",
			Help:      "Completion gateway call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	// Completion gateway failures
	GatewayErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "gateway_errors_total",
			Help:      "Completion gateway failures by kind",
		},
		[]string{"kind"},
	)

	// Guest quota rejections
	QuotaRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "quota_rejections_total",
			Help:      "Chat turns rejected by the guest quota",
		},
	)

	// Guest migrations
	GuestMigrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "guest_migrations_total",
			Help:      "Guest data migrations by outcome",
		},
		[]string{"status"},
	)

	// Sharing metrics
	SharesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "shares_total",
			Help:      "Share create/revoke attempts",
		},
		[]string{"action", "status"},
	)

	PublicShareRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "public_share_requests_total",
			Help:      "Public share fetch requests",
		},
		[]string{"status"},
	)

	// Retention sweeps
	RetentionDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "chat_api",
			Name:      "retention_deletes_total",
			Help:      "Records removed by the guest retention sweep",
		},
		[]string{"entity"},
	)
)

// RecordRequest records an HTTP request with duration
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordChatTurn records a chat turn attempt
func RecordChatTurn(principal, status string) {
	ChatTurnsTotal.WithLabelValues(principal, status).Inc()
}

// RecordGatewayCall records a completion gateway call
func RecordGatewayCall(status string, durationSec float64) {
	GatewayDuration.WithLabelValues(status).Observe(durationSec)
}

// RecordGatewayError records a completion gateway failure
func RecordGatewayError(kind string) {
	GatewayErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordQuotaRejection records a guest quota rejection
func RecordQuotaRejection() {
	QuotaRejectionsTotal.Inc()
}

// RecordGuestMigration records a guest migration attempt
func RecordGuestMigration(status string) {
	GuestMigrationsTotal.WithLabelValues(status).Inc()
}

// RecordShare records a share create/revoke attempt
func RecordShare(action, status string) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	SharesTotal.WithLabelValues(action, status).Inc()
}

// RecordPublicShareRequest records a public share fetch
func RecordPublicShareRequest(status string) {
	PublicShareRequestsTotal.WithLabelValues(status).Inc()
}

// RecordRetentionDeletes records rows removed by a retention sweep
func RecordRetentionDeletes(entity string, count int64) {
	if count <= 0 {
		return
	}
	RetentionDeletesTotal.WithLabelValues(entity).Add(float64(count))
}
