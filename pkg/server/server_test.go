package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shaowenchen/maverick-mcp-server/cmd/version"
	"github.com/shaowenchen/maverick-mcp-server/pkg/config"
	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: config.ModeSSE},
		Maverick: config.MaverickConfig{Enabled: true},
	}
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Normalize())

	s, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func serve(s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCall(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/suite/webapi/sites/ghost", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Maverick.BaseURL = upstream.URL
		cfg.Maverick.Token = "maverick-token"
	})

	rec := serve(s, http.MethodPost, "/mcp/call", CallRequest{
		Name:      "get-site-by-id",
		Arguments: map[string]any{"identifier": "ghost"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"❌ Site not found: ghost"}, resp.Content)
}

func TestCallUnknownTool(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, http.MethodPost, "/mcp/call", CallRequest{Name: "launch-rockets"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, http.MethodPost, "/mcp/call", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallWithoutModules(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Maverick.Enabled = false })

	rec := serve(s, http.MethodPost, "/mcp/call", CallRequest{Name: "query-sites"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Auth = config.AuthConfig{Enabled: true, Token: "secret"}
	})

	assert.Equal(t, http.StatusUnauthorized, serve(s, http.MethodGet, "/mcp/docs", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(s, http.MethodGet, "/mcp/docs", nil, "wrong").Code)
	assert.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/mcp/docs", nil, "secret").Code)
	assert.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/healthz", nil, "").Code)
}

func TestDocsRoute(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Server.URI = "/api" })

	rec := serve(s, http.MethodGet, "/api/docs", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var docs struct {
		TotalTools int `json:"total_tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Equal(t, 5, docs.TotalTools)
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Metrics.Enabled = true })
	rec := serve(s, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	s = newTestServer(t, nil)
	rec = serve(s, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsCollapseUnknownPaths(t *testing.T) {
	m := metrics.Init(zaptest.NewLogger(t))
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Metrics.Enabled = true
		cfg.Auth = config.AuthConfig{Enabled: true, Token: "secret"}
	})

	before := testutil.CollectAndCount(m.HTTPRequestsTotal)
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, fmt.Sprintf("/junk-%d", i), nil, "").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(s, http.MethodGet, fmt.Sprintf("/mcp/junk-%d", i), nil, "").Code)
	}

	assert.LessOrEqual(t, testutil.CollectAndCount(m.HTTPRequestsTotal), before+2)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", metrics.UnmatchedEndpoint, "404", config.ModeSSE)), 50.0)
}

func TestCallRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, http.MethodPost, "/mcp/call", CallRequest{
		Name:      "query-sites",
		Arguments: map[string]any{"siteId": strings.Repeat("x", maxCallBodyBytes)},
	}, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMCPProtocolListsTools(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	msg := s.MCP().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`))
	initResp, ok := msg.(mcp.JSONRPCResponse)
	require.True(t, ok, "unexpected message %T", msg)
	initResult, ok := initResp.Result.(mcp.InitializeResult)
	require.True(t, ok, "unexpected result %T", initResp.Result)
	assert.Equal(t, version.ServiceName, initResult.ServerInfo.Name)

	msg = s.MCP().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	resp, ok := msg.(mcp.JSONRPCResponse)
	require.True(t, ok, "unexpected message %T", msg)

	result, ok := resp.Result.(mcp.ListToolsResult)
	require.True(t, ok, "unexpected result %T", resp.Result)
	assert.Len(t, result.Tools, 5)
}

func TestMCPProtocolCallsTool(t *testing.T) {
	s := newTestServer(t, nil)

	msg := s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"query-sites","arguments":{}}}`))
	resp, ok := msg.(mcp.JSONRPCResponse)
	require.True(t, ok, "unexpected message %T", msg)

	result, ok := resp.Result.(mcp.CallToolResult)
	require.True(t, ok, "unexpected result %T", resp.Result)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Equal(t, "Error: MAVERICK_API_TOKEN environment variable not set", text.Text)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}
