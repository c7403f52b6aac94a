// Package server exposes the Pega case-management operations over the Model
// Context Protocol.
//
// A Server registers three tools, two resources and one prompt on an mcp-go
// server and serves them over the configured transport:
//
//   - verify_pega_connectivity_tool, get_case_types_tool, create_case_tool
//   - pega://case-types and pega://connection-status (text/plain)
//   - pega_case_assistant, the conversational instruction set for agents
//
// # Transports
//
// streamable-http (default) mounts the MCP handler at /mcp and /mcp/. sse
// serves /sse and /message. Both HTTP transports answer /healthz with "ok"
// and, when metrics are enabled, expose Prometheus metrics. stdio reads
// requests from stdin and writes responses to stdout; logs must then go to
// stderr.
//
//	srv := server.New(cfg, client, server.WithMetrics(recorder))
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop(context.Background())
//
// Tool failures are reported as MCP tool errors carrying the failure text and
// its advice. Resources never fail at the protocol level; problems are
// rendered into the returned text.
package server
