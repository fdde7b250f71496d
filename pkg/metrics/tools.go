package metrics

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RecordMCPToolCall records an MCP tool call
func RecordMCPToolCall(toolName, module string, duration time.Duration, success bool) {
	m := Get()
	if m == nil {
		return
	}

	status := "failure"
	if success {
		status = "success"
	}

	m.MCPToolCallsTotal.WithLabelValues(toolName, module, status).Inc()
	m.MCPToolCallDuration.WithLabelValues(toolName, module).Observe(duration.Seconds())
}

// RecordMCPToolError records an MCP tool error by kind
func RecordMCPToolError(toolName, module, errorType string) {
	m := Get()
	if m != nil {
		m.MCPToolErrorsTotal.WithLabelValues(toolName, module, errorType).Inc()
	}
}

// RecordModuleRequest records a module request
func RecordModuleRequest(moduleName string) {
	m := Get()
	if m != nil {
		m.ModuleRequestsTotal.WithLabelValues(moduleName).Inc()
	}
}

// WrapToolHandler wraps a tool handler with call count and latency metrics.
// A call counts as failed when the handler errors or flags its result as an error.
func WrapToolHandler(handler server.ToolHandlerFunc, toolName, moduleName string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		RecordModuleRequest(moduleName)

		result, err := handler(ctx, request)

		success := err == nil && (result == nil || !result.IsError)
		RecordMCPToolCall(toolName, moduleName, time.Since(start), success)
		if err != nil {
			RecordMCPToolError(toolName, moduleName, "handler")
		}

		return result, err
	}
}
