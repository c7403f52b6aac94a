// Package agent is a small MCP client for talking to a running pega-mcp
// server. It is used by the check command to exercise the tools and
// resources end to end.
//
//	c := agent.NewClient("http://localhost:8080/mcp", agent.TransportStreamableHTTP)
//	if err := c.Connect(ctx); err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	text, isError, err := c.CallToolText(ctx, "get_case_types_tool", nil)
//
// Tool failures reported by the server are returned as text with isError
// set; err is only non-nil for protocol or transport problems.
package agent
