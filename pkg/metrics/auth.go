package metrics

import (
	"time"
)

// AuthStatus is the outcome of a bearer token check
type AuthStatus string

const (
	AuthSuccess AuthStatus = "success"
	AuthFailure AuthStatus = "failure"
	AuthMissing AuthStatus = "missing"
)

// RecordAuthRequest records a bearer token check and how long it took
func RecordAuthRequest(status AuthStatus, duration time.Duration) {
	m := Get()
	if m == nil {
		return
	}
	m.AuthRequestsTotal.WithLabelValues(string(status)).Inc()
	m.AuthValidationDuration.Observe(duration.Seconds())
}
