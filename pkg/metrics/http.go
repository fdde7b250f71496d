package metrics

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// UnmatchedEndpoint labels requests that did not resolve to a route
const UnmatchedEndpoint = "unmatched"

// HTTPMetricsMiddleware collects request metrics for every route it wraps.
// Series are labelled by the matched chi route pattern, never the raw path.
// Event streams are additionally tracked as SSE connections.
func HTTPMetricsMiddleware(mode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := Get()
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			m.HTTPRequestsInFlight.WithLabelValues(mode).Inc()
			defer m.HTTPRequestsInFlight.WithLabelValues(mode).Dec()

			stream := isEventStream(r)
			if stream {
				RecordSSEConnection()
			}

			next.ServeHTTP(rw, r)

			elapsed := time.Since(start)
			if stream {
				RecordSSEDisconnection(elapsed)
			}

			endpoint := routePattern(r)
			if r.ContentLength > 0 {
				m.HTTPRequestSize.WithLabelValues(r.Method, endpoint).Observe(float64(r.ContentLength))
			}

			statusCode := strconv.Itoa(rw.statusCode)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, statusCode, mode).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, endpoint, statusCode).Observe(elapsed.Seconds())
			m.HTTPResponseSize.WithLabelValues(r.Method, endpoint).Observe(float64(rw.size))
		})
	}
}

// routePattern must run after the router has served r
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return UnmatchedEndpoint
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return UnmatchedEndpoint
}

// responseWriter captures status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func (rw *responseWriter) ReadFrom(r io.Reader) (int64, error) {
	n, err := io.Copy(rw.ResponseWriter, r)
	rw.size += int(n)
	return n, err
}

// Flush keeps streaming responses working through the wrapper
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
