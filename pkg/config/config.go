package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shaowenchen/maverick-mcp-server/pkg/modules/sites"
)

const (
	ModeStdio = "stdio"
	ModeSSE   = "sse"

	defaultHost        = "0.0.0.0"
	defaultPort        = 3000
	defaultURI         = "/mcp"
	defaultMetricsPath = "/metrics"
)

// Config represents the complete server configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" json:"log" yaml:"log"`
	Server   ServerConfig   `mapstructure:"server" json:"server" yaml:"server"`
	Maverick MaverickConfig `mapstructure:"maverick" json:"maverick" yaml:"maverick"`
	Metrics  MetricsConfig  `mapstructure:"metrics" json:"metrics" yaml:"metrics"`
	SSE      SSEConfig      `mapstructure:"sse" json:"sse" yaml:"sse"`
	Auth     AuthConfig     `mapstructure:"auth" json:"auth" yaml:"auth"`
}

// ToolsConfig contains tools configuration
type ToolsConfig struct {
	Prefix   string   `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	Suffix   string   `mapstructure:"suffix" json:"suffix" yaml:"suffix"`
	Disabled []string `mapstructure:"disabled" json:"disabled" yaml:"disabled"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `mapstructure:"level" json:"level" yaml:"level"`
}

// ServerConfig contains server configuration
type ServerConfig struct {
	Host string `mapstructure:"host" json:"host" yaml:"host"`
	Port int    `mapstructure:"port" json:"port" yaml:"port"`
	Mode string `mapstructure:"mode" json:"mode" yaml:"mode"`
	URI  string `mapstructure:"uri" json:"uri" yaml:"uri"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MaverickConfig contains the site management backend configuration
type MaverickConfig struct {
	Enabled bool        `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	BaseURL string      `mapstructure:"baseUrl" json:"baseUrl" yaml:"baseUrl"`
	Token   string      `mapstructure:"token" json:"-" yaml:"-"`
	Timeout int         `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	Tools   ToolsConfig `mapstructure:"tools" json:"tools" yaml:"tools"`
}

// MetricsConfig contains Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" json:"path" yaml:"path"`
}

// SSEConfig contains SSE configuration
type SSEConfig struct {
	KeepAlive time.Duration `mapstructure:"keepAlive" json:"keepAlive" yaml:"keepAlive"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Token   string `mapstructure:"token" json:"-" yaml:"-"`
}

// Normalize fills unset fields with defaults and validates the result
func (c *Config) Normalize() error {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	c.Server.Mode = strings.ToLower(strings.TrimSpace(c.Server.Mode))
	if c.Server.Mode == "" {
		c.Server.Mode = ModeStdio
	}
	if c.Server.Mode != ModeStdio && c.Server.Mode != ModeSSE {
		return fmt.Errorf("invalid server mode %q, valid modes: %s, %s", c.Server.Mode, ModeStdio, ModeSSE)
	}
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.URI == "" {
		c.Server.URI = defaultURI
	}
	if !strings.HasPrefix(c.Server.URI, "/") {
		c.Server.URI = "/" + c.Server.URI
	}

	c.Maverick.BaseURL = strings.TrimRight(c.Maverick.BaseURL, "/")
	if c.Maverick.BaseURL == "" {
		c.Maverick.BaseURL = sites.DefaultBaseURL
	}
	if c.Maverick.Timeout <= 0 {
		c.Maverick.Timeout = sites.DefaultTimeout
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}

	if c.Auth.Enabled && c.Auth.Token == "" {
		return fmt.Errorf("auth is enabled but auth.token is empty")
	}
	return nil
}

// SitesConfig converts the maverick section into the sites module config
func (c *Config) SitesConfig() *sites.Config {
	return &sites.Config{
		BaseURL: c.Maverick.BaseURL,
		Token:   c.Maverick.Token,
		Timeout: c.Maverick.Timeout,
		Tools: sites.ToolsConfig{
			Prefix:   c.Maverick.Tools.Prefix,
			Suffix:   c.Maverick.Tools.Suffix,
			Disabled: c.Maverick.Tools.Disabled,
		},
	}
}
