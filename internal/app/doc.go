// Package app bootstraps and runs the pega-mcp server.
//
// NewApplication performs the start-up sequence:
//
//  1. Configures logging on stderr, at debug level with --debug
//  2. Loads settings from the env file and the environment (internal/config)
//  3. Applies command line overrides for transport, host and port
//  4. Refuses to continue when the platform settings are missing or invalid
//  5. Wires the metrics recorder, the Pega client and the MCP server
//
// Run then starts the configured transport and blocks until SIGINT, SIGTERM,
// context cancellation or the transport closing by itself. Shutdown goes
// through server.Stop, which bounds the wait for in-flight requests.
package app
