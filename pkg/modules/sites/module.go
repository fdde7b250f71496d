package sites

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
)

const moduleName = "sites"

// Module represents the sites module
type Module struct {
	config     *Config
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string

	tools  []server.ServerTool
	byName map[string]server.ServerTool
}

// New creates a new sites module
func New(config *Config, logger *zap.Logger) (*Module, error) {
	if config == nil {
		return nil, fmt.Errorf("sites config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := DefaultTimeout * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	m := &Module{
		config:     config,
		logger:     logger.Named("sites"),
		httpClient: newHTTPClient(timeout),
		baseURL:    baseURL,
	}

	m.tools = m.BuildTools(GetDefaultToolsConfig())
	m.byName = make(map[string]server.ServerTool, len(m.tools))
	for _, tool := range m.tools {
		m.byName[tool.Tool.Name] = tool
	}

	if config.Token == "" {
		m.logger.Warn("Sites module created without API token - tools will return configuration required error")
	} else {
		m.logger.Info("Sites module created",
			zap.String("base_url", baseURL),
			zap.Duration("timeout", timeout))
	}

	return m, nil
}

// GetTools returns all MCP tools for the sites module. The list is built once
// in New and must not be modified by callers.
func (m *Module) GetTools() []server.ServerTool {
	return m.tools
}

// Call dispatches a tool call by its (decorated) name and returns the text
// segments of the result. Unknown names fail with ErrUnknownTool.
func (m *Module) Call(ctx context.Context, name string, args map[string]any) ([]string, error) {
	tool, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := tool.Handler(ctx, request)
	if err != nil {
		return nil, err
	}
	return textSegments(result), nil
}

func (m *Module) handlerFor(op Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := m.Execute(ctx, op, request.GetArguments())
		if res.Failed() {
			metrics.RecordMCPToolError(m.BuildToolName(string(op)), moduleName, string(res.Kind))
		}
		return toolResult(res), nil
	}
}

// Execute runs one tool call end to end: configuration check, request
// translation, the upstream round trip and response interpretation. Every
// path yields a Result.
func (m *Module) Execute(ctx context.Context, op Operation, args map[string]any) Result {
	if m.config.Token == "" {
		return configurationError()
	}

	spec, res := BuildRequest(op, args)
	if res != nil {
		m.logger.Info("Tool call rejected locally",
			zap.String("operation", string(op)),
			zap.String("reason", res.Text))
		return *res
	}

	resp, err := m.makeMaverickRequest(ctx, op, spec)
	if err != nil {
		return transportError(op, err)
	}

	return Interpret(op, spec, resp)
}

func toolResult(res Result) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: res.Failed(),
		Content: []mcp.Content{
			mcp.NewTextContent(res.Text),
		},
	}
}

func textSegments(result *mcp.CallToolResult) []string {
	if result == nil {
		return nil
	}
	segments := make([]string, 0, len(result.Content))
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			segments = append(segments, c.Text)
		case *mcp.TextContent:
			segments = append(segments, c.Text)
		}
	}
	return segments
}
