package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// appAliasPlaceholder is replaced by the application alias in APIBasePath.
const appAliasPlaceholder = "{app_alias}"

// Config is the immutable runtime configuration. It is built once by Load and
// never modified afterwards.
type Config struct {
	// BaseURL is the platform root, for example https://pega.example.com.
	// A trailing slash is trimmed during loading.
	BaseURL      string
	ClientID     string
	ClientSecret string
	AppAlias     string

	// APIBasePath is the application API path template; "{app_alias}" is
	// substituted with AppAlias.
	APIBasePath string
	// TokenPath is appended to BaseURL to form the token endpoint.
	TokenPath string

	VerifySSL bool
	// MaxConcurrentRequests is accepted for compatibility and currently unused.
	MaxConcurrentRequests int
	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int

	// DedupeTokenRefresh collapses concurrent token refreshes into one request.
	DedupeTokenRefresh bool

	// LogLevel is the serve log level: debug, info, warn or error.
	LogLevel string

	Server  ServerConfig
	Metrics MetricsConfig

	// EnvFile is the dotenv file that was read, if any.
	EnvFile string
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	Host      string
	Port      int
	Transport string
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// IsConfigured reports whether every value required to reach the platform is set.
func (c *Config) IsConfigured() bool {
	return c.BaseURL != "" && c.ClientID != "" && c.ClientSecret != "" && c.AppAlias != ""
}

// TokenURL returns the OAuth2 token endpoint.
func (c *Config) TokenURL() string {
	return c.BaseURL + c.TokenPath
}

// APIURL returns the application API root with the alias substituted.
func (c *Config) APIURL() string {
	return c.BaseURL + strings.ReplaceAll(c.APIBasePath, appAliasPlaceholder, c.AppAlias)
}

// Timeout returns RequestTimeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Addr returns the host:port the HTTP transports listen on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// MCPEndpoint returns the URL a local client uses to reach the streamable HTTP endpoint.
func (c *Config) MCPEndpoint() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/mcp", net.JoinHostPort(host, strconv.Itoa(c.Server.Port)))
}
