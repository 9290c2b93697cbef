package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication Metrics
	AuthLoginTotal           *prometheus.CounterVec
	AuthLoginDuration        *prometheus.HistogramVec
	DirectoryRequestDuration prometheus.Histogram

	// Token Metrics
	TokensIssuedTotal       prometheus.Counter
	TokenGenerationDuration prometheus.Histogram
	TokenValidationTotal    *prometheus.CounterVec

	// Encryption Proxy Metrics
	EncryptionOpsTotal *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		AuthLoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of login attempts by auth source",
			},
			[]string{"auth_source", "result"}, // local/directory, success/failure
		),
		AuthLoginDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auth_login_duration_seconds",
				Help:    "Login duration by auth source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"auth_source"},
		),
		DirectoryRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "auth_directory_request_duration_seconds",
				Help:    "Duration of directory service validation calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		TokensIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tokens_issued_total",
				Help: "Total number of tokens issued",
			},
		),
		TokenGenerationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "token_generation_duration_seconds",
				Help:    "Token generation duration",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
			},
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "token_validation_total",
				Help: "Token validation results",
			},
			[]string{"result"}, // valid, invalid, expired
		),
		EncryptionOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "encryption_ops_total",
				Help: "Encryption proxy operations by direction and target",
			},
			[]string{"op", "target", "result"},
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Database query errors by operation",
			},
			[]string{"operation"},
		),
	}
}

// RecordLogin records a login attempt outcome
func (m *Metrics) RecordLogin(authSource string, success bool, duration time.Duration) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.AuthLoginTotal.WithLabelValues(authSource, result).Inc()
	m.AuthLoginDuration.WithLabelValues(authSource).Observe(duration.Seconds())
}

// RecordDirectoryRequest records a directory service call duration
func (m *Metrics) RecordDirectoryRequest(duration time.Duration) {
	m.DirectoryRequestDuration.Observe(duration.Seconds())
}

// RecordTokenIssued records token issuance
func (m *Metrics) RecordTokenIssued(duration time.Duration) {
	m.TokensIssuedTotal.Inc()
	m.TokenGenerationDuration.Observe(duration.Seconds())
}

// RecordTokenValidation records a token validation result
func (m *Metrics) RecordTokenValidation(result string) {
	m.TokenValidationTotal.WithLabelValues(result).Inc()
}

// RecordEncryptionOp records an encryption proxy operation
func (m *Metrics) RecordEncryptionOp(op, target string, success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.EncryptionOpsTotal.WithLabelValues(op, target, result).Inc()
}

// RecordDatabaseQueryError records a database query error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
