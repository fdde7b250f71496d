package metrics

import (
	"time"
)

// BackendType names an upstream service the gateway talks to
type BackendType string

const (
	BackendMaverick BackendType = "maverick"
)

// RecordBackendRequest records one round trip to a backend and its outcome
func RecordBackendRequest(backend BackendType, duration time.Duration, success bool) {
	m := Get()
	if m == nil {
		return
	}

	status := "failure"
	if success {
		status = "success"
	}

	m.BackendRequestsTotal.WithLabelValues(string(backend), status).Inc()
	m.BackendRequestDuration.WithLabelValues(string(backend)).Observe(duration.Seconds())
}

// RecordBackendError records a request that never produced a response
func RecordBackendError(backend BackendType, errorType string) {
	m := Get()
	if m != nil {
		m.BackendErrorsTotal.WithLabelValues(string(backend), errorType).Inc()
	}
}
