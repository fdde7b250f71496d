package sites

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testToken = "test-token"

type upstream struct {
	*httptest.Server
	calls atomic.Int32
	last  atomic.Pointer[http.Request]
	body  atomic.Pointer[map[string]any]
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		u.last.Store(r.Clone(context.Background()))
		if r.Body != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				u.body.Store(&body)
			}
		}
		handler(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func newTestModule(t *testing.T, baseURL, token string) *Module {
	t.Helper()
	m, err := New(&Config{BaseURL: baseURL, Token: token}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return m
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewValidatesInput(t *testing.T) {
	_, err := New(nil, zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = New(&Config{}, nil)
	assert.Error(t, err)

	m, err := New(&Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, m.baseURL)
	assert.Equal(t, DefaultTimeout*time.Second, m.httpClient.Timeout)
}

func TestExecuteWithoutTokenMakesNoCalls(t *testing.T) {
	u := newUpstream(t, respond(200, `{}`))
	m := newTestModule(t, u.URL, "")

	args := map[Operation]map[string]any{
		OpCreateSite:          {"subdomain": "demo"},
		OpQuerySites:          {},
		OpGetSiteByID:         {"identifier": "demo"},
		OpManageSite:          {"identifier": "demo", "action": "start"},
		OpGetSiteResizeStatus: {"siteId": "1"},
	}
	for op, a := range args {
		res := m.Execute(context.Background(), op, a)
		assert.Equal(t, KindConfiguration, res.Kind, op)
		assert.Equal(t, "Error: MAVERICK_API_TOKEN environment variable not set", res.Text)
	}
	assert.Zero(t, u.calls.Load())
}

func TestExecuteLocalValidationMakesNoCalls(t *testing.T) {
	u := newUpstream(t, respond(200, `{}`))
	m := newTestModule(t, u.URL, testToken)

	res := m.Execute(context.Background(), OpManageSite, map[string]any{"identifier": "demo", "action": "revert"})
	assert.Equal(t, KindLocalValidation, res.Kind)
	assert.Contains(t, res.Text, "restoreSpec")

	res = m.Execute(context.Background(), OpManageSite, map[string]any{
		"identifier":         "demo",
		"action":             "clone",
		"reason":             "debug",
		"requestorFirstName": "Ada",
		"requestorLastName":  "Lovelace",
		"supportCase":        "SC-1",
	})
	assert.Equal(t, KindLocalValidation, res.Kind)
	assert.Contains(t, res.Text, "requestorEmail")

	assert.Zero(t, u.calls.Load())
}

func TestExecuteSendsHeaders(t *testing.T) {
	u := newUpstream(t, respond(200, `[]`))
	m := newTestModule(t, u.URL+"/", testToken)

	m.Execute(context.Background(), OpQuerySites, map[string]any{"siteList": []any{"100", "200"}, "labelValue": "x"})

	req := u.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, testToken, req.Header.Get("appian-api-key"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.NotEmpty(t, req.Header.Get("X-Request-Id"))
	assert.True(t, strings.HasPrefix(req.Header.Get("User-Agent"), "maverick-mcp-server/"))
	assert.Equal(t, "/suite/webapi/sites", req.URL.Path)
	assert.Equal(t, "100,200", req.URL.Query().Get("siteList"))
	assert.False(t, req.URL.Query().Has("labelValue"))
}

func TestExecuteGetSiteByIDNotFound(t *testing.T) {
	u := newUpstream(t, respond(404, `{"message":"nope"}`))
	m := newTestModule(t, u.URL, testToken)

	res := m.Execute(context.Background(), OpGetSiteByID, map[string]any{"identifier": "ghost-site"})
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Contains(t, strings.ToLower(res.Text), "not found")
	assert.Contains(t, res.Text, "ghost-site")
	assert.Equal(t, "/suite/webapi/sites/ghost-site", u.last.Load().URL.Path)
}

func TestExecuteGetSiteByIDMultipleRecords(t *testing.T) {
	u := newUpstream(t, respond(200, `[{"siteId": 1, "subdomain": "dup"}, {"siteId": 2, "subdomain": "dup"}]`))
	m := newTestModule(t, u.URL, testToken)

	res := m.Execute(context.Background(), OpGetSiteByID, map[string]any{"identifier": "dup"})
	assert.False(t, res.Failed())
	assert.Equal(t, 2, strings.Count(res.Text, "Site ID:"))
	assert.Equal(t, 2, strings.Count(res.Text, recordSeparator))
}

func TestExecuteCreateSiteDryRun(t *testing.T) {
	u := newUpstream(t, respond(405, ``))
	m := newTestModule(t, u.URL, testToken)

	res := m.Execute(context.Background(), OpCreateSite, map[string]any{"subdomain": "demo", "dryRun": true})
	assert.False(t, res.Failed())
	assert.Contains(t, res.Text, "Dry run successful")

	req := u.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "true", req.URL.Query().Get("dryRun"))

	body := u.body.Load()
	require.NotNil(t, body)
	assert.NotContains(t, *body, "dryRun")
	assert.Equal(t, "demo", (*body)["subdomain"])
}

func TestExecuteManageSiteSendsNoBodyForPlainActions(t *testing.T) {
	u := newUpstream(t, respond(200, `{"message":"Starting site"}`))
	m := newTestModule(t, u.URL, testToken)

	res := m.Execute(context.Background(), OpManageSite, map[string]any{"identifier": "123", "action": "start"})
	assert.Equal(t, "🚀 Starting site", res.Text)

	req := u.last.Load()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "start", req.URL.Query().Get("action"))
	assert.Nil(t, u.body.Load())
}

func TestExecuteTimeout(t *testing.T) {
	release := make(chan struct{})
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)
	m := newTestModule(t, u.URL, testToken)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := m.Execute(ctx, OpGetSiteResizeStatus, map[string]any{"siteId": "1"})
	assert.Equal(t, KindTimeout, res.Kind)
	assert.Equal(t, "❌ Request timed out", res.Text)
}

func TestExecuteTransportError(t *testing.T) {
	u := newUpstream(t, respond(200, `{}`))
	baseURL := u.URL
	u.Close()

	m := newTestModule(t, baseURL, testToken)
	res := m.Execute(context.Background(), OpGetSiteByID, map[string]any{"identifier": "demo"})
	assert.Equal(t, KindTransport, res.Kind)
	assert.True(t, strings.HasPrefix(res.Text, "❌ Error getting site: "))
}

func TestCall(t *testing.T) {
	u := newUpstream(t, respond(404, ``))
	m := newTestModule(t, u.URL, testToken)

	content, err := m.Call(context.Background(), "get-site-resize-status", map[string]any{"siteId": "9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"✅ No resize operation in progress for site 9. A new resize can be initiated."}, content)

	_, err = m.Call(context.Background(), "delete-everything", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestToolHandlerFlagsFailures(t *testing.T) {
	m := newTestModule(t, "http://127.0.0.1:1", "")

	for _, tool := range m.GetTools() {
		req := mcp.CallToolRequest{}
		req.Params.Name = tool.Tool.Name
		req.Params.Arguments = map[string]any{}

		result, err := tool.Handler(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.IsError, tool.Tool.Name)
		assert.Equal(t, []string{"Error: MAVERICK_API_TOKEN environment variable not set"}, textSegments(result))
	}
}
