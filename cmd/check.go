package cmd

import (
	"context"
	"io"
	"os"

	"github.com/amribhatt/pega/internal/agent"
	"github.com/amribhatt/pega/internal/cli"
	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/pega"

	"github.com/spf13/cobra"
)

var (
	checkOutputFormat string
	checkQuiet        bool
	checkEndpoint     string
	checkLocal        bool
)

// checkCmd runs the end-to-end tool checks.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the tools and resources end to end",
	Long: `Connects to a running pega-mcp server and exercises every tool and
resource in order:

  1. configuration           required settings are present
  2. verify connectivity     verify_pega_connectivity_tool
  3. get case types          get_case_types_tool
  4. create case             create_case_tool with the first case type found
  5. case types resource     pega://case-types
  6. connection status       pega://connection-status

The transport follows the endpoint: URLs ending in /sse use Server-Sent
Events, anything else streamable HTTP. With --local the checks call the
Pega API in-process and no server is needed.

Note: the create case check creates a real case in the target application.

Examples:
  pega-mcp check
  pega-mcp check --endpoint http://localhost:8080/sse -o json
  pega-mcp check --local`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Suppress the progress spinner")
	checkCmd.Flags().StringVar(&checkEndpoint, "endpoint", "", "MCP endpoint of the running server (default from MCP_SERVER_HOST and MCP_SERVER_PORT)")
	checkCmd.Flags().BoolVar(&checkLocal, "local", false, "Run the checks in-process without a server")
}

// checkOptions are the inputs of one check run.
type checkOptions struct {
	EnvFile  string
	Endpoint string
	Local    bool
	Format   string
	Quiet    bool
	Version  string
	Out      io.Writer
	Progress io.Writer
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return executeCheck(ctx, checkOptions{
		EnvFile:  envFile,
		Endpoint: checkEndpoint,
		Local:    checkLocal,
		Format:   checkOutputFormat,
		Quiet:    checkQuiet,
		Version:  GetVersion(),
		Out:      cmd.OutOrStdout(),
		Progress: os.Stderr,
	})
}

func executeCheck(ctx context.Context, opts checkOptions) error {
	if err := cli.ValidateOutputFormat(opts.Format); err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{EnvFile: opts.EnvFile})
	if err != nil {
		return err
	}

	var target cli.Target
	var targetName string

	if opts.Local {
		client, err := cli.ConnectLocal(ctx, cfg, pega.NewClient(cfg), opts.Version)
		if err != nil {
			return err
		}
		defer client.Close()

		target = client
		targetName = "local (" + cfg.APIURL() + ")"
	} else {
		endpoint := opts.Endpoint
		if endpoint == "" {
			endpoint = cfg.MCPEndpoint()
		}

		client := agent.NewClient(endpoint, agent.TransportForEndpoint(endpoint))
		client.SetVersion(opts.Version)
		if err := client.Connect(ctx); err != nil {
			return cli.ConnectError(endpoint, err)
		}
		defer client.Close()

		target = client
		targetName = endpoint
	}

	report := cli.NewRunner(cfg, target, cli.RunnerOptions{
		Quiet:      opts.Quiet,
		TargetName: targetName,
		Progress:   opts.Progress,
	}).Run(ctx)

	if err := cli.RenderReport(opts.Out, report, cli.OutputFormat(opts.Format)); err != nil {
		return err
	}

	if !report.AllPassed() {
		return &checksFailedError{failed: report.Failed, total: report.Total}
	}
	return nil
}
