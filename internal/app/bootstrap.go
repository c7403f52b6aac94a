package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/pkg/logging"
)

// ErrNotConfigured is returned by NewApplication when the platform settings
// are incomplete.
var ErrNotConfigured = errors.New(config.MissingConfigurationMessage)

// Application bootstraps and runs the MCP server.
//
// Initialization happens in two phases:
//  1. NewApplication loads configuration, sets up logging and wires services
//  2. Run starts the transport and blocks until shutdown
//
// Example usage:
//
//	application, err := app.NewApplication(app.NewConfig(false, ".env"), "1.0.0")
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
type Application struct {
	config    *Config
	pegaCfg   *config.Config
	services  *Services
	logOutput io.Writer
}

// NewApplication loads the configuration for cfg and wires the services.
// It fails with ErrNotConfigured when the platform settings are missing and
// with a config.ConfigurationErrorCollection when a setting is invalid.
func NewApplication(cfg *Config, version string) (*Application, error) {
	return newApplication(cfg, version, os.Stderr)
}

func newApplication(cfg *Config, version string, logOutput io.Writer) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	// Logs go to stderr so stdout stays free for the stdio transport.
	logging.InitForCLI(appLogLevel, logOutput)

	pegaCfg, err := config.Load(config.LoadOptions{EnvFile: cfg.EnvFile})
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration")
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(pegaCfg, cfg)

	if !pegaCfg.IsConfigured() {
		logging.Error("Bootstrap", nil, config.MissingConfigurationMessage)
		return nil, ErrNotConfigured
	}
	if err := pegaCfg.Validate(); err != nil {
		logging.Error("Bootstrap", err, "Invalid configuration")
		return nil, err
	}
	// --debug wins over LOG_LEVEL.
	if !cfg.Debug {
		logging.InitForCLI(logging.ParseLevel(pegaCfg.LogLevel), logOutput)
	}

	return &Application{
		config:    cfg,
		pegaCfg:   pegaCfg,
		services:  InitializeServices(pegaCfg, version),
		logOutput: logOutput,
	}, nil
}

func applyOverrides(pegaCfg *config.Config, cfg *Config) {
	if cfg.Transport != "" {
		pegaCfg.Server.Transport = cfg.Transport
	}
	if cfg.Host != "" {
		pegaCfg.Server.Host = cfg.Host
	}
	if cfg.Port != 0 {
		pegaCfg.Server.Port = cfg.Port
	}
}

// PegaConfig returns the loaded configuration.
func (a *Application) PegaConfig() *config.Config {
	return a.pegaCfg
}

// Services returns the wired components.
func (a *Application) Services() *Services {
	return a.services
}

// Run starts the server and blocks until ctx is cancelled, a termination
// signal arrives or the transport stops on its own.
func (a *Application) Run(ctx context.Context) error {
	return runServer(ctx, a.services)
}
