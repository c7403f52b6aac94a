package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/amribhatt/pega/internal/app"
	"github.com/amribhatt/pega/internal/cli"
	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotConfigured indicates the platform settings are missing.
	ExitCodeNotConfigured = 2
	// ExitCodeChecksFailed indicates that 'check' ran but at least one check failed.
	ExitCodeChecksFailed = 3
)

var (
	// debug enables debug logging for every command.
	debug bool

	// envFile is the dotenv file read by serve and check and written by setup.
	envFile string
)

// rootCmd represents the base command for the pega-mcp application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pega-mcp",
	Short: "MCP server for Pega case management",
	Long: `pega-mcp exposes a Pega Platform application to AI assistants over the
Model Context Protocol. Assistants can verify connectivity, list the
application's case types and create new cases.

Run 'pega-mcp setup' once to write the connection settings, then
'pega-mcp serve' to start the server and 'pega-mcp check' to test it.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	// Errors are rendered by Execute.
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if debug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "pega-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err))
		os.Exit(getExitCode(err))
	}
}

// checksFailedError reports a completed check run with failures.
type checksFailedError struct {
	failed int
	total  int
}

func (e *checksFailedError) Error() string {
	return fmt.Sprintf("%d of %d checks failed", e.failed, e.total)
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if errors.Is(err, app.ErrNotConfigured) {
		return ExitCodeNotConfigured
	}

	var checksFailed *checksFailedError
	if errors.As(err, &checksFailed) {
		return ExitCodeChecksFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Dotenv file with the connection settings")
}
