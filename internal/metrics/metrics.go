package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	TasksAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cake_tasks_added_total",
			Help: "Total number of tasks added to the store",
		},
	)

	TaskCheckins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cake_task_checkins_total",
			Help: "Total number of task checkins by outcome",
		},
		[]string{"outcome"},
	)

	TaskCheckouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cake_task_checkouts_total",
			Help: "Total number of successful task checkouts",
		},
	)

	TaskRuntime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cake_task_runtime_seconds",
			Help:    "Wall-clock time a task spent running before checkin",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
		},
	)

	StoreLockWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cake_store_lock_wait_seconds",
			Help:    "Time spent waiting to acquire the store's file lock",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"mode"},
	)

	StoreLockBusy = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cake_store_lock_busy_total",
			Help: "Total number of lock acquisitions that hit SQLITE_BUSY and retried",
		},
		[]string{"mode"},
	)

	// Worker metrics
	ActiveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cake_active_workers",
			Help: "Current number of busy local-pool worker slots",
		},
	)

	WorkerBusyTime = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cake_worker_busy_seconds_total",
			Help: "Total time workers spent executing shell commands",
		},
		[]string{"worker_id"},
	)

	// HTTP metrics, serving the admin API surface.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cake_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cake_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Redis metrics, serving the distributed worker variant's transport.
	RedisOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cake_redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
		[]string{"operation"},
	)

	RedisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cake_redis_errors_total",
			Help: "Total number of Redis errors",
		},
		[]string{"operation"},
	)

	// WebSocket metrics, serving the admin API's log/status stream.
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cake_websocket_connections",
			Help: "Current number of WebSocket connections",
		},
	)

	WebSocketMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cake_websocket_messages_total",
			Help: "Total number of WebSocket messages sent",
		},
		[]string{"type"},
	)
)

// RecordAdd records a single task insertion.
func RecordAdd() {
	TasksAdded.Inc()
}

// RecordCheckout records a successful checkout.
func RecordCheckout() {
	TaskCheckouts.Inc()
}

// RecordCheckin records a checkin by its outcome ("succeeded", "failed",
// or "killed").
func RecordCheckin(outcome string) {
	TaskCheckins.WithLabelValues(outcome).Inc()
}

// RecordTaskRuntime records the wall-clock duration a task ran before
// checkin.
func RecordTaskRuntime(seconds float64) {
	TaskRuntime.Observe(seconds)
}

// RecordLockWait records the time spent waiting for the store's file
// lock under the given mode ("transactional" or "exclusive").
func RecordLockWait(mode string, seconds float64) {
	StoreLockWait.WithLabelValues(mode).Observe(seconds)
}

// RecordLockBusy records a SQLITE_BUSY retry under the given mode.
func RecordLockBusy(mode string) {
	StoreLockBusy.WithLabelValues(mode).Inc()
}

// SetActiveWorkers sets the active workers gauge.
func SetActiveWorkers(count float64) {
	ActiveWorkers.Set(count)
}

// RecordWorkerBusyTime records time spent processing.
func RecordWorkerBusyTime(workerID string, duration float64) {
	WorkerBusyTime.WithLabelValues(workerID).Add(duration)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordRedisOperation records a Redis operation.
func RecordRedisOperation(operation string, duration float64) {
	RedisOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordRedisError records a Redis error.
func RecordRedisError(operation string) {
	RedisErrors.WithLabelValues(operation).Inc()
}

// SetWebSocketConnections sets the WebSocket connections gauge.
func SetWebSocketConnections(count float64) {
	WebSocketConnections.Set(count)
}

// RecordWebSocketMessage records a WebSocket message.
func RecordWebSocketMessage(msgType string) {
	WebSocketMessages.WithLabelValues(msgType).Inc()
}
