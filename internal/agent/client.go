package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/amribhatt/pega/pkg/logging"
)

// TransportType defines the transport type for MCP connections
type TransportType string

const (
	TransportSSE            TransportType = "sse"
	TransportStreamableHTTP TransportType = "streamable-http"
	TransportInProcess      TransportType = "in-process"
)

// DefaultTimeout bounds each request made through the client.
const DefaultTimeout = 60 * time.Second

// clientName is announced to the server during initialization.
const clientName = "pega-mcp-check"

// Client is an MCP client connected to a single server endpoint.
type Client struct {
	endpoint  string
	transport TransportType
	timeout   time.Duration
	version   string
	inProcess *server.MCPServer

	mu         sync.RWMutex
	client     client.MCPClient
	serverInfo mcp.Implementation
}

// NewClient creates a client for endpoint. Call Connect before use.
func NewClient(endpoint string, transport TransportType) *Client {
	return &Client{
		endpoint:  endpoint,
		transport: transport,
		timeout:   DefaultTimeout,
		version:   "dev",
	}
}

// NewInProcessClient creates a client that talks to srv directly, without a
// network hop. Call Connect before use.
func NewInProcessClient(srv *server.MCPServer) *Client {
	c := NewClient(string(TransportInProcess), TransportInProcess)
	c.inProcess = srv
	return c
}

// SetTimeout overrides DefaultTimeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SetVersion sets the client version announced during initialization.
func (c *Client) SetVersion(version string) {
	c.version = version
}

// Endpoint returns the server endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ServerInfo returns the name and version the server announced.
func (c *Client) ServerInfo() mcp.Implementation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// createAndConnectClient creates and connects an MCP client based on transport type
func (c *Client) createAndConnectClient(ctx context.Context) (client.MCPClient, error) {
	switch c.transport {
	case TransportSSE:
		sseClient, err := client.NewSSEMCPClient(c.endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE client: %w", err)
		}
		if err := sseClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start SSE client: %w", err)
		}
		return sseClient, nil

	case TransportStreamableHTTP:
		httpClient, err := client.NewStreamableHttpClient(c.endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
		}
		if err := httpClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start streamable-http client: %w", err)
		}
		return httpClient, nil

	case TransportInProcess:
		if c.inProcess == nil {
			return nil, fmt.Errorf("no in-process server to connect to")
		}
		inProcessClient, err := client.NewInProcessClient(c.inProcess)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-process client: %w", err)
		}
		if err := inProcessClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start in-process client: %w", err)
		}
		return inProcessClient, nil

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", c.transport)
	}
}

// Connect establishes the connection and performs the MCP handshake.
func (c *Client) Connect(ctx context.Context) error {
	logging.Debug("Agent", "Connecting to %s using %s transport", c.endpoint, c.transport)

	mcpClient, err := c.createAndConnectClient(ctx)
	if err != nil {
		return err
	}

	info, err := c.initialize(ctx, mcpClient)
	if err != nil {
		mcpClient.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}

	c.mu.Lock()
	c.client = mcpClient
	c.serverInfo = info
	c.mu.Unlock()

	logging.Debug("Agent", "Connected to %s %s", info.Name, info.Version)
	return nil
}

// initialize performs the MCP protocol handshake
func (c *Client) initialize(ctx context.Context, mcpClient client.MCPClient) (mcp.Implementation, error) {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: c.version,
	}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := mcpClient.Initialize(timeoutCtx, req)
	if err != nil {
		return mcp.Implementation{}, err
	}
	return result.ServerInfo, nil
}

func (c *Client) connected() (client.MCPClient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	return c.client, nil
}

// ListTools returns the tools the server exposes.
func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	mcpClient, err := c.connected()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := mcpClient.ListTools(timeoutCtx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return result.Tools, nil
}

// CallTool executes a tool and returns the result
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	mcpClient, err := c.connected()
	if err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	logging.Debug("Agent", "Calling tool %s", name)

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := mcpClient.CallTool(timeoutCtx, req)
	if err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}

	return result, nil
}

// CallToolText executes a tool and joins its text content. isError reports
// whether the server flagged the result as a tool error.
func (c *Client) CallToolText(ctx context.Context, name string, args map[string]interface{}) (string, bool, error) {
	result, err := c.CallTool(ctx, name, args)
	if err != nil {
		return "", false, err
	}
	return joinText(result.Content), result.IsError, nil
}

// ReadResource reads a resource and returns its content
func (c *Client) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	mcpClient, err := c.connected()
	if err != nil {
		return nil, err
	}

	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	logging.Debug("Agent", "Reading resource %s", uri)

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := mcpClient.ReadResource(timeoutCtx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource %s: %w", uri, err)
	}

	return result, nil
}

// ReadResourceText reads a resource and joins its text contents.
func (c *Client) ReadResourceText(ctx context.Context, uri string) (string, error) {
	result, err := c.ReadResource(ctx, uri)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, content := range result.Contents {
		if text, ok := content.(mcp.TextResourceContents); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func joinText(contents []mcp.Content) string {
	var parts []string
	for _, content := range contents {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// TransportForEndpoint guesses the transport from an endpoint path: URLs
// ending in /sse use SSE, everything else streamable HTTP.
func TransportForEndpoint(endpoint string) TransportType {
	if strings.HasSuffix(strings.TrimSuffix(endpoint, "/"), "/sse") {
		return TransportSSE
	}
	return TransportStreamableHTTP
}
