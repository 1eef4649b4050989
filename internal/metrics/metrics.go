package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// QARequestsTotal counts question-answering calls by outcome (answered, rejected, error).
	QARequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_requests_total",
			Help: "Total number of table question-answering requests by outcome",
		},
		[]string{"outcome"},
	)

	// DatasetUploadsTotal counts accepted CSV uploads.
	DatasetUploadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_uploads_total",
			Help: "Total number of accepted dataset uploads",
		},
	)

	// DatasetsActive is the number of datasets currently held in memory.
	DatasetsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "datasets_active",
			Help: "Number of datasets currently held in memory",
		},
	)
)

var initOnce sync.Once

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, QARequestsTotal,
			DatasetUploadsTotal, DatasetsActive)
	})
}

// RecordRequest records duration and count for an HTTP request. Called from
// middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncQARequests increments the QA counter for the given outcome (answered, rejected, error).
func IncQARequests(outcome string) {
	QARequestsTotal.WithLabelValues(outcome).Inc()
}

// IncDatasetUploads increments the accepted-upload counter.
func IncDatasetUploads() {
	DatasetUploadsTotal.Inc()
}

// SetDatasetsActive sets the in-memory dataset gauge.
func SetDatasetsActive(n int) {
	DatasetsActive.Set(float64(n))
}
