package metrics

import (
	"net/http"
	"strings"
	"time"
)

// RecordSSEConnection records a new SSE stream
func RecordSSEConnection() {
	m := Get()
	if m != nil {
		m.SSEConnectionsTotal.Inc()
		m.SSEActiveConnections.Inc()
	}
}

// RecordSSEDisconnection records the end of an SSE stream
func RecordSSEDisconnection(duration time.Duration) {
	m := Get()
	if m != nil {
		m.SSEActiveConnections.Dec()
		m.SSEConnectionDuration.Observe(duration.Seconds())
	}
}

// isEventStream reports whether r opens a server-sent event stream
func isEventStream(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
