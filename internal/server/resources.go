package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amribhatt/pega/pkg/logging"
)

const (
	ResourceCaseTypes        = "pega://case-types"
	ResourceConnectionStatus = "pega://connection-status"

	textMIMEType = "text/plain"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(ResourceCaseTypes, "Case types",
			mcp.WithResourceDescription("Case types available in the configured Pega application"),
			mcp.WithMIMEType(textMIMEType),
		),
		s.handleCaseTypesResource,
	)

	s.mcpServer.AddResource(
		mcp.NewResource(ResourceConnectionStatus, "Connection status",
			mcp.WithResourceDescription("Current connectivity to the Pega platform and its response time"),
			mcp.WithMIMEType(textMIMEType),
		),
		s.handleConnectionStatusResource,
	)
}

func (s *Server) handleCaseTypesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logging.Debug("Server", "Resource %s read", ResourceCaseTypes)
	return textContents(request.Params.URI, s.service.CaseTypesSnapshot(ctx)), nil
}

func (s *Server) handleConnectionStatusResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logging.Debug("Server", "Resource %s read", ResourceConnectionStatus)
	return textContents(request.Params.URI, s.service.ConnectionStatusSnapshot(ctx)), nil
}

func textContents(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: textMIMEType,
			Text:     text,
		},
	}
}
