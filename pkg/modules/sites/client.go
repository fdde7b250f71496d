package sites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/shaowenchen/maverick-mcp-server/cmd/version"
	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
)

const tracerName = "github.com/shaowenchen/maverick-mcp-server/pkg/modules/sites"

// newHTTPClient creates the client used for upstream calls. The client
// timeout bounds the whole exchange including reading the body.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 15 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// makeMaverickRequest executes spec against the Maverick API and returns the
// fully read response. The response body is always closed before returning.
func (m *Module) makeMaverickRequest(ctx context.Context, op Operation, spec *RequestSpec) (*ResponseSpec, error) {
	requestID := uuid.NewString()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "maverick."+string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", spec.Method),
			attribute.String("http.path", spec.Path),
			attribute.String("maverick.request_id", requestID),
		),
	)
	defer span.End()

	url := m.baseURL + spec.Path
	if len(spec.Query) > 0 {
		url += "?" + spec.Query.Encode()
	}

	var reqBody io.Reader
	if spec.Body != nil {
		jsonData, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, m.config.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("User-Agent", version.UserAgent())

	m.logger.Debug("Making Maverick request",
		zap.String("operation", string(op)),
		zap.String("method", spec.Method),
		zap.String("url", url),
		zap.String("request_id", requestID))

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.recordFailure(span, start, err)
		m.logger.Error("Maverick request failed",
			zap.String("method", spec.Method),
			zap.String("url", url),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		m.recordFailure(span, start, err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, "upstream status "+strconv.Itoa(resp.StatusCode))
		metrics.RecordBackendError(metrics.BackendMaverick, "status_"+strconv.Itoa(resp.StatusCode))
	}
	metrics.RecordBackendRequest(metrics.BackendMaverick, time.Since(start), resp.StatusCode < http.StatusInternalServerError)

	m.logger.Info("Maverick response received",
		zap.String("operation", string(op)),
		zap.String("method", spec.Method),
		zap.String("url", url),
		zap.String("request_id", requestID),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return &ResponseSpec{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (m *Module) recordFailure(span trace.Span, start time.Time, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	errorType := "network_error"
	if isTimeout(err) {
		errorType = "timeout"
	}
	metrics.RecordBackendError(metrics.BackendMaverick, errorType)
	metrics.RecordBackendRequest(metrics.BackendMaverick, time.Since(start), false)
}
