package cmd

import (
	"context"
	"fmt"

	"github.com/amribhatt/pega/internal/app"
	"github.com/amribhatt/pega/internal/config"

	"github.com/spf13/cobra"
)

var (
	// serveTransport overrides MCP_TRANSPORT.
	serveTransport string

	// serveHost overrides MCP_SERVER_HOST.
	serveHost string

	// servePort overrides MCP_SERVER_PORT.
	servePort int
)

// serveCmd starts the MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Pega MCP server",
	Long: `Starts the MCP server and serves the Pega tools, resources and prompt
until interrupted (Ctrl+C or SIGTERM).

Transports:
  streamable-http  MCP over HTTP at http://HOST:PORT/mcp (default)
  sse              Server-Sent Events at http://HOST:PORT/sse
  stdio            MCP over stdin/stdout, for clients that launch the server

Both HTTP transports also answer /healthz, and /metrics when METRICS_ENABLED
is true. In stdio mode all logging goes to stderr.

Configuration is read from the env file (--env-file, default .env) and the
environment. The server refuses to start until PEGA_BASE_URL,
PEGA_CLIENT_ID, PEGA_CLIENT_SECRET and APP_ALIAS are set; run
'pega-mcp setup' to create the file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(debug, envFile)
	cfg.Transport = serveTransport
	cfg.Host = serveHost
	cfg.Port = servePort

	application, err := app.NewApplication(cfg, GetVersion())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", "", fmt.Sprintf("Transport to serve (%s, %s, %s)", config.MCPTransportStreamableHTTP, config.MCPTransportSSE, config.MCPTransportStdio))
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host for the HTTP transports")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port for the HTTP transports")
}
