package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ReportsCreatedTotal counts reports added to the store.
	ReportsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecowatch",
		Subsystem: "reports",
		Name:      "created_total",
		Help:      "Total number of pollution reports submitted.",
	})

	// StatusUpdatesTotal counts workflow updates by resulting status.
	StatusUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecowatch",
		Subsystem: "reports",
		Name:      "status_updates_total",
		Help:      "Total number of report status updates, labeled by resulting status.",
	}, []string{"status"})

	// NotificationsTotal counts notifications added to the feed by type.
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecowatch",
		Subsystem: "feed",
		Name:      "notifications_total",
		Help:      "Total number of notifications added to the feed, labeled by type.",
	}, []string{"type"})

	// MaintenanceRequestsTotal counts maintenance request transitions.
	MaintenanceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecowatch",
		Subsystem: "maintenance",
		Name:      "requests_total",
		Help:      "Total number of maintenance request transitions, labeled by resulting status.",
	}, []string{"status"})

	// AnomaliesRaisedTotal counts anomaly alerts raised by sensor.
	AnomaliesRaisedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecowatch",
		Subsystem: "anomaly",
		Name:      "raised_total",
		Help:      "Total number of anomaly alerts raised by the monitor, labeled by sensor.",
	}, []string{"sensor"})

	// AnomalyLastCheckSeconds is a unix timestamp (seconds) of the last monitor check.
	AnomalyLastCheckSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ecowatch",
		Subsystem: "anomaly",
		Name:      "last_check_timestamp_seconds",
		Help:      "Unix timestamp (seconds) of the last anomaly check.",
	})

	// AIRequestDurationSeconds is the latency of generative-AI calls.
	AIRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ecowatch",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Latency of generative-AI requests, labeled by operation and result.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"operation", "result"})

	// PublishErrorsTotal counts failed event publishes.
	PublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecowatch",
		Subsystem: "events",
		Name:      "publish_errors_total",
		Help:      "Total number of report events that failed to publish.",
	})

	// FeedClients is the number of connected websocket clients.
	FeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ecowatch",
		Subsystem: "feed",
		Name:      "websocket_clients",
		Help:      "Current number of connected live-feed websocket clients.",
	})
)

// Register registers ecowatch metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsCreatedTotal,
			StatusUpdatesTotal,
			NotificationsTotal,
			MaintenanceRequestsTotal,
			AnomaliesRaisedTotal,
			AnomalyLastCheckSeconds,
			AIRequestDurationSeconds,
			PublishErrorsTotal,
			FeedClients,
		)
	})
}

func NowUnixSeconds() float64 {
	return float64(time.Now().Unix())
}

// ObserveAI records the duration of an AI call started at start
func ObserveAI(operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AIRequestDurationSeconds.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}
