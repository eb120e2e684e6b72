package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptstudio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_class"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptstudio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "path", "status_class"},
	)

	// HTTP 并发请求数
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "promptstudio_http_inflight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// 上游调用指标：每一次按 key 的尝试
	UpstreamAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptstudio_upstream_attempts_total",
			Help: "Total number of upstream attempts by outcome",
		},
		[]string{"feature", "outcome"},
	)

	UpstreamAttemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptstudio_upstream_attempt_duration_seconds",
			Help:    "Upstream attempt latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"feature"},
	)

	FeatureResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptstudio_feature_resolutions_total",
			Help: "Feature results by source (ai or fallback) and fallback reason",
		},
		[]string{"feature", "source", "reason"},
	)

	KeyPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "promptstudio_key_pool_size",
			Help: "Number of API keys parsed from the stored key text",
		},
	)

	ManagementAccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptstudio_management_access_total",
			Help: "Management endpoint access attempts by result",
		},
		[]string{"result"},
	)

	RateLimitKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "promptstudio_ratelimit_keys",
			Help: "Number of active rate limiter keys",
		},
	)

	RateLimitSweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promptstudio_ratelimit_sweeps_total",
			Help: "Total number of rate limiter cleanup sweeps",
		},
	)

	// 存储操作指标
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptstudio_storage_operations_total",
			Help: "Storage operations by backend, operation and result",
		},
		[]string{"backend", "operation", "result"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptstudio_storage_operation_duration_seconds",
			Help:    "Storage operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend", "operation"},
	)

	StorageUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "promptstudio_storage_up",
			Help: "1 when the last storage health probe succeeded",
		},
		[]string{"backend"},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "promptstudio_websocket_clients",
			Help: "Connected status stream clients",
		},
	)
)

// StatusClass buckets an HTTP status code into 2xx/3xx/4xx/5xx.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// RecordStorageOperation records one storage call.
func RecordStorageOperation(backend, operation string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StorageOperationsTotal.WithLabelValues(backend, operation, result).Inc()
	StorageOperationDuration.WithLabelValues(backend, operation).Observe(d.Seconds())
}

// RecordAttempt records one upstream attempt.
func RecordAttempt(feature, outcome string, d time.Duration) {
	UpstreamAttemptsTotal.WithLabelValues(feature, outcome).Inc()
	UpstreamAttemptDuration.WithLabelValues(feature).Observe(d.Seconds())
}

// RecordResolution records how a feature request was resolved.
func RecordResolution(feature, source, reason string) {
	FeatureResolutionsTotal.WithLabelValues(feature, source, reason).Inc()
}
