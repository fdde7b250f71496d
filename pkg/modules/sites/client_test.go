package sites

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"

	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestMaverickRequestIsTracedAndMetered(t *testing.T) {
	m := metrics.Init(zaptest.NewLogger(t))
	recorder := recordSpans(t)

	u := newUpstream(t, respond(http.StatusOK, `[]`))
	module := newTestModule(t, u.URL, testToken)

	successes := testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues(string(metrics.BackendMaverick), "success"))

	res := module.Execute(context.Background(), OpQuerySites, map[string]any{"batchSize": 1})
	require.False(t, res.Failed(), res.Text)

	assert.Equal(t, successes+1, testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues(string(metrics.BackendMaverick), "success")))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "maverick."+string(OpQuerySites), span.Name())
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())

	attrs := spanAttributes(span)
	assert.Equal(t, http.MethodGet, attrs["http.method"].AsString())
	assert.Equal(t, sitesPath, attrs["http.path"].AsString())
	assert.Equal(t, int64(http.StatusOK), attrs["http.status_code"].AsInt64())
	assert.Equal(t, u.last.Load().Header.Get("X-Request-Id"), attrs["maverick.request_id"].AsString())
}

func TestMaverickServerErrorIsRecordedAsFailure(t *testing.T) {
	m := metrics.Init(zaptest.NewLogger(t))
	recorder := recordSpans(t)

	u := newUpstream(t, respond(http.StatusInternalServerError, `oops`))
	module := newTestModule(t, u.URL, testToken)

	failures := testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues(string(metrics.BackendMaverick), "failure"))
	statusErrors := testutil.ToFloat64(m.BackendErrorsTotal.WithLabelValues(string(metrics.BackendMaverick), "status_500"))

	res := module.Execute(context.Background(), OpGetSiteByID, map[string]any{"identifier": "demo"})
	require.True(t, res.Failed())

	assert.Equal(t, failures+1, testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues(string(metrics.BackendMaverick), "failure")))
	assert.Equal(t, statusErrors+1, testutil.ToFloat64(m.BackendErrorsTotal.WithLabelValues(string(metrics.BackendMaverick), "status_500")))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "maverick."+string(OpGetSiteByID), spans[0].Name())
	assert.Equal(t, int64(http.StatusInternalServerError), spanAttributes(spans[0])["http.status_code"].AsInt64())
}
