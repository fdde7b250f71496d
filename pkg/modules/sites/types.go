package sites

import (
	"net/http"
	"net/url"
)

const (
	// DefaultBaseURL is the Maverick staging host used when no base URL is configured
	DefaultBaseURL = "https://maverick-staging.appiancloud.com"
	// DefaultTimeout is the upstream request timeout in seconds
	DefaultTimeout = 30

	apiKeyHeader = "appian-api-key"
	sitesPath    = "/suite/webapi/sites"
	resizesPath  = "/suite/webapi/resizes"
)

// Config contains sites module configuration
type Config struct {
	BaseURL string      `mapstructure:"baseUrl" json:"baseUrl" yaml:"baseUrl"`
	Token   string      `mapstructure:"token" json:"token" yaml:"token"`
	Timeout int         `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	Tools   ToolsConfig `mapstructure:"tools" json:"tools" yaml:"tools"`
}

// ToolsConfig contains tools configuration
type ToolsConfig struct {
	Prefix   string   `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	Suffix   string   `mapstructure:"suffix" json:"suffix" yaml:"suffix"`
	Disabled []string `mapstructure:"disabled" json:"disabled" yaml:"disabled"`
}

// Operation identifies one of the gateway tools by its base name
type Operation string

const (
	OpCreateSite          Operation = "create-site"
	OpQuerySites          Operation = "query-sites"
	OpGetSiteByID         Operation = "get-site-by-id"
	OpManageSite          Operation = "manage-site"
	OpGetSiteResizeStatus Operation = "get-site-resize-status"
)

// failureVerb is used in messages for transport and decoding failures
func (op Operation) failureVerb() string {
	switch op {
	case OpCreateSite:
		return "creating site"
	case OpQuerySites:
		return "querying sites"
	case OpGetSiteByID:
		return "getting site"
	case OpManageSite:
		return "managing site"
	case OpGetSiteResizeStatus:
		return "getting resize status"
	}
	return string(op)
}

// RequestSpec describes the single upstream request issued for a tool call
type RequestSpec struct {
	Method string
	Path   string
	Query  url.Values
	// Body is nil when no request body is sent
	Body map[string]any

	// Identifier is the site id or subdomain the request targets, if any
	Identifier string
	Action     Action
}

// ResponseSpec is the upstream answer to a RequestSpec
type ResponseSpec struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Result is the textual outcome of a tool call.
// Kind is empty on success.
type Result struct {
	Text string
	Kind ErrorKind
}

// Failed reports whether the result carries one of the error kinds
func (r Result) Failed() bool {
	return r.Kind != ""
}
