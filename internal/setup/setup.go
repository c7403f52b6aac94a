package setup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/pkg/logging"
)

// maxAttempts bounds how often a required value is asked for.
const maxAttempts = 3

// envFileMode keeps the client secret private to the owner.
const envFileMode = 0o600

// defaultServerHost is written to new env files so a fresh setup only
// listens locally.
const defaultServerHost = "localhost"

// Options controls the wizard.
type Options struct {
	// EnvFile is the file to write.
	EnvFile string
	// Force overwrites an existing file without asking.
	Force bool
	// Out receives progress messages; defaults to stdout.
	Out io.Writer
}

// Answers are the values collected from the user.
type Answers struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	AppAlias     string
}

// Run asks for the connection settings and writes the env file. It returns
// false without error when the user declines to overwrite an existing file.
func Run(p Prompter, opts Options) (bool, error) {
	if opts.EnvFile == "" {
		opts.EnvFile = config.DefaultEnvFile
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	fmt.Fprintln(opts.Out, "Pega MCP Server Setup")
	fmt.Fprintln(opts.Out, strings.Repeat("-", 30))

	if _, err := os.Stat(opts.EnvFile); err == nil && !opts.Force {
		answer, err := p.Ask(fmt.Sprintf("%s exists. Overwrite? (y/N): ", opts.EnvFile))
		if err != nil {
			return false, err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Fprintf(opts.Out, "Keeping existing %s\n", opts.EnvFile)
			return false, nil
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to check %s: %w", opts.EnvFile, err)
	}

	answers, err := collect(p, opts.Out)
	if err != nil {
		return false, err
	}

	if err := WriteEnvFile(opts.EnvFile, answers); err != nil {
		return false, err
	}

	logging.Info("Setup", "Wrote configuration to %s", opts.EnvFile)
	fmt.Fprintf(opts.Out, "%s created\n", opts.EnvFile)
	return true, nil
}

func collect(p Prompter, out io.Writer) (Answers, error) {
	var a Answers
	var err error

	if a.BaseURL, err = required(out, func() (string, error) { return p.Ask("Pega Platform URL: ") }); err != nil {
		return a, err
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")

	if a.ClientID, err = required(out, func() (string, error) { return p.Ask("OAuth Client ID: ") }); err != nil {
		return a, err
	}
	if a.ClientSecret, err = required(out, func() (string, error) { return p.AskSecret("OAuth Client Secret: ") }); err != nil {
		return a, err
	}
	if a.AppAlias, err = required(out, func() (string, error) { return p.Ask("Application Alias: ") }); err != nil {
		return a, err
	}
	return a, nil
}

func required(out io.Writer, ask func() (string, error)) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		value, err := ask()
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Fprintln(out, "Required field!")
	}
	return "", fmt.Errorf("no value given after %d attempts", maxAttempts)
}

// RenderEnv returns the dotenv content for answers, including the default
// API paths and server settings.
func RenderEnv(a Answers) string {
	defaults := config.GetDefaultConfig()

	entries := []struct {
		key, value string
	}{
		{config.KeyBaseURL, a.BaseURL},
		{config.KeyClientID, a.ClientID},
		{config.KeyClientSecret, a.ClientSecret},
		{config.KeyAppAlias, a.AppAlias},
		{config.KeyAPIBasePath, defaults.APIBasePath},
		{config.KeyTokenPath, defaults.TokenPath},
		{config.KeyVerifySSL, strconv.FormatBool(defaults.VerifySSL)},
		{config.KeyMaxConcurrentRequests, strconv.Itoa(defaults.MaxConcurrentRequests)},
		{config.KeyRequestTimeout, strconv.Itoa(defaults.RequestTimeout)},
		{config.KeyServerHost, defaultServerHost},
		{config.KeyServerPort, strconv.Itoa(defaults.Server.Port)},
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s=%s\n", e.key, quote(e.value))
	}
	return b.String()
}

// WriteEnvFile writes the rendered answers to path with owner-only permissions.
func WriteEnvFile(path string, a Answers) error {
	if err := os.WriteFile(path, []byte(RenderEnv(a)), envFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, envFileMode); err != nil {
		return fmt.Errorf("failed to restrict permissions on %s: %w", path, err)
	}
	return nil
}

// quote protects values the dotenv parser would otherwise split, expand or
// treat as a comment. Single quotes disable variable expansion.
func quote(v string) string {
	if !strings.ContainsAny(v, " \t#\"'\\=$") {
		return v
	}
	if !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	return strconv.Quote(v)
}
