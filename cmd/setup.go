package cmd

import (
	"os"

	"github.com/amribhatt/pega/internal/setup"

	"github.com/spf13/cobra"
)

var setupForce bool

// setupCmd writes the env file interactively.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the env file with the Pega connection settings",
	Long: `Prompts for the Pega Platform URL, the OAuth 2.0 client credentials and
the application alias, then writes them with the default API paths and
server settings to the env file (--env-file, default .env).

The client secret is not echoed. The file is created readable by the
owner only. An existing file is only replaced after confirmation, or
straight away with --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompter, err := setup.NewReadlinePrompter(os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer prompter.Close()

		_, err = setup.Run(prompter, setup.Options{
			EnvFile: envFile,
			Force:   setupForce,
			Out:     cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&setupForce, "force", false, "Overwrite an existing env file without asking")
}
