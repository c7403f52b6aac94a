// Package setup implements the interactive "pega-mcp setup" wizard that
// writes the dotenv file read by the server.
//
// The wizard asks for the platform URL, the OAuth client credentials and
// the application alias, then writes them together with the default API
// paths and server settings. The client secret is read without echo.
//
//	prompter, err := setup.NewReadlinePrompter(os.Stdin, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer prompter.Close()
//	written, err := setup.Run(prompter, setup.Options{EnvFile: ".env"})
package setup
