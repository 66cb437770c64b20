package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Question metrics
	questionsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "librarian_questions_received_total",
		Help: "Total number of chat questions received",
	})

	questionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "librarian_questions_processed_total",
		Help: "Total number of chat questions processed",
	}, []string{"status"})

	// Moderation metrics
	moderationBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "librarian_moderation_blocks_total",
		Help: "Total number of questions blocked or censored",
	}, []string{"lang"})

	// Retrieval metrics
	retrievalPath = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "librarian_retrieval_path_total",
		Help: "Total number of queries per retrieval path",
	}, []string{"path"})

	// Upstream metrics
	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "librarian_upstream_request_duration_seconds",
		Help:    "Duration of generation service requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "status"})

	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "librarian_upstream_requests_total",
		Help: "Total number of generation service requests",
	}, []string{"model", "status"})

	// Cache metrics
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "librarian_cache_hits_total",
		Help: "Total number of answer cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "librarian_cache_misses_total",
		Help: "Total number of answer cache misses",
	})

	// Rate limit metrics
	rateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "librarian_rate_limit_exceeded_total",
		Help: "Total number of rate limit exceeded events",
	}, []string{"user_id"})

	// Storage metrics
	storageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "librarian_storage_operations_total",
		Help: "Total number of record store operations",
	}, []string{"operation", "status"})

	storageOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "librarian_storage_operation_duration_seconds",
		Help:    "Duration of record store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// Active sessions gauge
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "librarian_active_sessions",
		Help: "Number of live session contexts",
	})
)

// Retrieval path labels.
const (
	PathExact    = "exact"
	PathSemantic = "semantic"
	PathNone     = "none"
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordQuestionReceived records an incoming chat question
func (m *Metrics) RecordQuestionReceived() {
	questionsReceived.Inc()
}

// RecordQuestionProcessed records a processed chat question
func (m *Metrics) RecordQuestionProcessed(status string) {
	questionsProcessed.WithLabelValues(status).Inc()
}

// RecordModerationBlock records a blocked or censored question
func (m *Metrics) RecordModerationBlock(lang string) {
	moderationBlocks.WithLabelValues(lang).Inc()
}

// RecordRetrievalPath records which retrieval path answered a query
func (m *Metrics) RecordRetrievalPath(path string) {
	retrievalPath.WithLabelValues(path).Inc()
}

// RecordUpstreamRequest records a generation service request
func (m *Metrics) RecordUpstreamRequest(model, status string, duration time.Duration) {
	upstreamRequestDuration.WithLabelValues(model, status).Observe(duration.Seconds())
	upstreamRequestsTotal.WithLabelValues(model, status).Inc()
}

// RecordCacheHit records an answer cache hit
func (m *Metrics) RecordCacheHit() {
	cacheHits.Inc()
}

// RecordCacheMiss records an answer cache miss
func (m *Metrics) RecordCacheMiss() {
	cacheMisses.Inc()
}

// RecordRateLimitExceeded records a rate limit exceeded event
func (m *Metrics) RecordRateLimitExceeded(userID string) {
	rateLimitExceeded.WithLabelValues(userID).Inc()
}

// RecordStorageOperation records a record store operation
func (m *Metrics) RecordStorageOperation(operation, status string, duration time.Duration) {
	storageOperations.WithLabelValues(operation, status).Inc()
	storageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetActiveSessions sets the number of live session contexts
func (m *Metrics) SetActiveSessions(count float64) {
	activeSessions.Set(count)
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
