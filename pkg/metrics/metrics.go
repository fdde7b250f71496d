package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Metrics holds all the Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestSize      *prometheus.HistogramVec
	HTTPResponseSize     *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// SSE stream metrics
	SSEConnectionsTotal   prometheus.Counter
	SSEActiveConnections  prometheus.Gauge
	SSEConnectionDuration prometheus.Histogram

	// MCP tool metrics
	MCPToolCallsTotal   *prometheus.CounterVec
	MCPToolCallDuration *prometheus.HistogramVec
	MCPToolErrorsTotal  *prometheus.CounterVec

	// Module metrics
	ModuleEnabled       *prometheus.GaugeVec
	ModuleRequestsTotal *prometheus.CounterVec

	// Backend service metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	BackendErrorsTotal     *prometheus.CounterVec

	// Auth metrics
	AuthRequestsTotal      *prometheus.CounterVec
	AuthValidationDuration prometheus.Histogram

	// System metrics
	ProcessGoroutines  prometheus.Gauge
	ProcessMemoryBytes *prometheus.GaugeVec

	BuildInfo *prometheus.GaugeVec

	logger *zap.Logger
}

var (
	defaultMetrics *Metrics
	initOnce       sync.Once
)

// Init initializes the metrics system. Subsequent calls return the first instance.
func Init(logger *zap.Logger) *Metrics {
	initOnce.Do(func() {
		defaultMetrics = newMetrics(promauto.With(prometheus.DefaultRegisterer), logger)
		logger.Info("Metrics system initialized")
	})
	return defaultMetrics
}

// Get returns the default metrics instance, nil until Init is called
func Get() *Metrics {
	return defaultMetrics
}

func newMetrics(factory promauto.Factory, logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,
	}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code", "mode"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	m.HTTPRequestSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 7), // 100B to 100MB
		},
		[]string{"method", "endpoint"},
	)

	m.HTTPResponseSize = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 7),
		},
		[]string{"method", "endpoint"},
	)

	m.HTTPRequestsInFlight = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"mode"},
	)

	m.SSEConnectionsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "sse_connections_total",
			Help: "Total number of SSE streams opened",
		},
	)

	m.SSEActiveConnections = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_active_connections",
			Help: "Number of open SSE streams",
		},
	)

	m.SSEConnectionDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sse_connection_duration_seconds",
			Help:    "SSE stream duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600}, // 1s to 1h
		},
	)

	m.MCPToolCallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_tool_calls_total",
			Help: "Total number of MCP tool calls",
		},
		[]string{"tool_name", "module", "status"},
	)

	m.MCPToolCallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcp_tool_call_duration_seconds",
			Help:    "MCP tool call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool_name", "module"},
	)

	m.MCPToolErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_tool_errors_total",
			Help: "Total number of MCP tool errors",
		},
		[]string{"tool_name", "module", "error_type"},
	)

	m.ModuleEnabled = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "module_enabled",
			Help: "Module enabled status (0=disabled, 1=enabled)",
		},
		[]string{"module_name"},
	)

	m.ModuleRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_requests_total",
			Help: "Total number of requests per module",
		},
		[]string{"module_name"},
	)

	m.BackendRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of backend service requests",
		},
		[]string{"backend", "status"},
	)

	m.BackendRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Backend service request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	m.BackendErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_errors_total",
			Help: "Total number of backend service errors",
		},
		[]string{"backend", "error_type"},
	)

	m.AuthRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of authentication requests",
		},
		[]string{"status"},
	)

	m.AuthValidationDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_token_validation_duration_seconds",
			Help:    "Authentication token validation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	m.ProcessGoroutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_goroutines",
			Help: "Number of goroutines",
		},
	)

	m.ProcessMemoryBytes = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "process_memory_bytes",
			Help: "Process memory usage in bytes",
		},
		[]string{"type"},
	)

	m.BuildInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information",
		},
		[]string{"version", "git_commit", "build_date"},
	)

	return m
}

// SetModuleEnabled sets the enabled status for a module
func (m *Metrics) SetModuleEnabled(moduleName string, enabled bool) {
	value := 0.0
	if enabled {
		value = 1.0
	}
	m.ModuleEnabled.WithLabelValues(moduleName).Set(value)
}

// SetBuildInfo sets the build information metric
func SetBuildInfo(version, gitCommit, buildDate string) {
	m := Get()
	if m != nil {
		m.BuildInfo.WithLabelValues(version, gitCommit, buildDate).Set(1)
	}
}
