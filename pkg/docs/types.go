package docs

// ToolInfo describes one tool as served by /mcp/docs
type ToolInfo struct {
	Name        string                   `json:"name" yaml:"name"`
	Description string                   `json:"description" yaml:"description"`
	Parameters  map[string]ParameterInfo `json:"parameters" yaml:"parameters"`
	Required    []string                 `json:"required,omitempty" yaml:"required,omitempty"`
	Module      string                   `json:"module" yaml:"module"`
}

// ParameterInfo is the documented shape of one tool argument
type ParameterInfo struct {
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
}

// ToolsInfoResponse represents the response structure for /mcp/docs
type ToolsInfoResponse struct {
	Service    string     `json:"service" yaml:"service"`
	Version    string     `json:"version" yaml:"version"`
	TotalTools int        `json:"total_tools" yaml:"total_tools"`
	Modules    []string   `json:"enabled_modules" yaml:"enabled_modules"`
	Tools      []ToolInfo `json:"tools" yaml:"tools"`
}
