// Package cli implements the check command: an end-to-end run of every tool
// and resource, reported as a table, JSON or YAML.
//
// The suite runs against a Target, normally an agent.Client. For a remote
// run it is connected to a running server; ConnectLocal instead serves the
// case operations through an in-process MCP server so configuration and
// connectivity can be checked without starting one.
//
//	runner := cli.NewRunner(cfg, target, cli.RunnerOptions{Quiet: quiet})
//	report := runner.Run(ctx)
//	if err := cli.RenderReport(os.Stdout, report, cli.OutputFormatTable); err != nil {
//	    return err
//	}
//
// Progress is shown with a spinner on stderr unless quiet mode is enabled.
// RenderError prints humane errors with their advice for the commands in cmd.
package cli
