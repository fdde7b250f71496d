package docs

import (
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/shaowenchen/maverick-mcp-server/cmd/version"
)

// ToolProvider is a module that exposes MCP tools
type ToolProvider interface {
	GetTools() []server.ServerTool
}

// Collector collects tool information from the registered modules
type Collector struct {
	modules []namedProvider
	logger  *zap.Logger
}

type namedProvider struct {
	name     string
	provider ToolProvider
}

// NewCollector creates a new docs collector
func NewCollector(logger *zap.Logger) *Collector {
	return &Collector{
		logger: logger,
	}
}

// Register adds a module whose tools are documented under name
func (c *Collector) Register(name string, provider ToolProvider) {
	c.modules = append(c.modules, namedProvider{name: name, provider: provider})
}

// CollectToolsInfo collects tool information from all registered modules
func (c *Collector) CollectToolsInfo() ToolsInfoResponse {
	resp := ToolsInfoResponse{
		Service: version.ServiceName,
		Version: version.Get().Version,
		Modules: []string{},
		Tools:   []ToolInfo{},
	}

	for _, m := range c.modules {
		resp.Modules = append(resp.Modules, m.name)
		for _, serverTool := range m.provider.GetTools() {
			resp.Tools = append(resp.Tools, toolInfo(serverTool.Tool, m.name))
		}
	}
	resp.TotalTools = len(resp.Tools)

	c.logger.Debug("Collected tool docs",
		zap.Strings("modules", resp.Modules),
		zap.Int("total_tools", resp.TotalTools))
	return resp
}

func toolInfo(tool mcp.Tool, module string) ToolInfo {
	required := append([]string(nil), tool.InputSchema.Required...)
	sort.Strings(required)

	info := ToolInfo{
		Name:        tool.Name,
		Description: tool.Description,
		Parameters:  make(map[string]ParameterInfo, len(tool.InputSchema.Properties)),
		Required:    required,
		Module:      module,
	}

	for name, def := range tool.InputSchema.Properties {
		info.Parameters[name] = parameterInfo(def, contains(required, name))
	}
	return info
}

func parameterInfo(def any, required bool) ParameterInfo {
	param := ParameterInfo{Required: required}
	schema, ok := def.(map[string]any)
	if !ok {
		return param
	}

	if t, ok := schema["type"].(string); ok {
		param.Type = t
	}
	if d, ok := schema["description"].(string); ok {
		param.Description = d
	}
	switch enum := schema["enum"].(type) {
	case []string:
		param.Enum = enum
	case []any:
		for _, v := range enum {
			param.Enum = append(param.Enum, fmt.Sprint(v))
		}
	}
	return param
}

func contains(list []string, s string) bool {
	i := sort.SearchStrings(list, s)
	return i < len(list) && list[i] == s
}
