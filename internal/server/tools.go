package server

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amribhatt/pega/internal/api"
	"github.com/amribhatt/pega/pkg/logging"
)

const (
	ToolVerifyConnectivity = "verify_pega_connectivity_tool"
	ToolGetCaseTypes       = "get_case_types_tool"
	ToolCreateCase         = "create_case_tool"

	argCaseTypeID = "case_type_id"
)

// ToolNames lists the registered tools in the order agents should learn them.
var ToolNames = []string{ToolVerifyConnectivity, ToolGetCaseTypes, ToolCreateCase}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(ToolVerifyConnectivity,
			mcp.WithDescription("Verify connectivity to the Pega platform by authenticating and listing case types. Reports the response time."),
		),
		s.handleVerifyConnectivity,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolGetCaseTypes,
			mcp.WithDescription("List the case types available in the configured Pega application, with their IDs."),
		),
		s.handleGetCaseTypes,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolCreateCase,
			mcp.WithDescription("Create a new case of the given case type and return the new case ID."),
			mcp.WithString(argCaseTypeID,
				mcp.Required(),
				mcp.Description("ID of the case type to create, as returned by get_case_types_tool"),
			),
		),
		s.handleCreateCase,
	)

	logging.Debug("Server", "Registered tools: %s", strings.Join(ToolNames, ", "))
}

func (s *Server) handleVerifyConnectivity(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logging.Debug("Server", "Tool %s called", ToolVerifyConnectivity)
	return toolResult(s.service.VerifyConnectivity(ctx)), nil
}

func (s *Server) handleGetCaseTypes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logging.Debug("Server", "Tool %s called", ToolGetCaseTypes)
	return toolResult(s.service.ListCaseTypes(ctx)), nil
}

func (s *Server) handleCreateCase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caseTypeID, err := request.RequireString(argCaseTypeID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	caseTypeID = strings.TrimSpace(caseTypeID)
	if caseTypeID == "" {
		return mcp.NewToolResultError(argCaseTypeID + " must not be empty"), nil
	}

	logging.Debug("Server", "Tool %s called for case type %s", ToolCreateCase, caseTypeID)
	return toolResult(s.service.CreateCase(ctx, caseTypeID)), nil
}

// toolResult maps an outcome to a tool result. Failures become tool errors
// so the protocol call itself still succeeds.
func toolResult(outcome api.Outcome) *mcp.CallToolResult {
	if !outcome.OK() {
		return mcp.NewToolResultError(outcome.Text())
	}
	return mcp.NewToolResultText(outcome.Text())
}
