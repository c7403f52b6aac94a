package config

import (
	"fmt"
	"strings"
)

// MissingConfigurationMessage is logged when required settings are absent.
const MissingConfigurationMessage = "Missing configuration. Check your env file."

var supportedTransports = []string{MCPTransportStreamableHTTP, MCPTransportSSE, MCPTransportStdio}

var supportedLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks the configuration and returns a ConfigurationErrorCollection
// listing every problem, or nil.
func (c *Config) Validate() error {
	var errs ConfigurationErrorCollection

	validateRequired(&errs, "PEGA_BASE_URL", c.BaseURL, "run 'pega-mcp setup' or set PEGA_BASE_URL, e.g. https://pega.example.com")
	validateRequired(&errs, "PEGA_CLIENT_ID", c.ClientID, "copy the client ID from the Pega OAuth 2.0 client registration")
	validateRequired(&errs, "PEGA_CLIENT_SECRET", c.ClientSecret, "copy the client secret from the Pega OAuth 2.0 client registration")
	validateRequired(&errs, "APP_ALIAS", c.AppAlias, "set APP_ALIAS to the application alias used in the DX API URL")

	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs.Add(ConfigurationError{
			Key:         "PEGA_BASE_URL",
			ErrorType:   "invalid",
			Message:     fmt.Sprintf("must start with http:// or https://, got %q", c.BaseURL),
			Suggestions: []string{"include the scheme, e.g. https://pega.example.com"},
		})
	}

	if c.RequestTimeout <= 0 {
		errs.Add(ConfigurationError{
			Key:         "REQUEST_TIMEOUT",
			ErrorType:   "invalid",
			Message:     fmt.Sprintf("must be a positive number of seconds, got %d", c.RequestTimeout),
			Suggestions: []string{fmt.Sprintf("remove the setting to use the default of %d", DefaultRequestTimeout)},
		})
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs.Add(ConfigurationError{
			Key:       "MCP_SERVER_PORT",
			ErrorType: "invalid",
			Message:   fmt.Sprintf("must be between 1 and 65535, got %d", c.Server.Port),
		})
	}

	if err := validateOneOf("MCP_TRANSPORT", c.Server.Transport, supportedTransports,
		fmt.Sprintf("use %q unless your client needs another transport", MCPTransportStreamableHTTP)); err != nil {
		errs.Add(*err)
	}

	if err := validateOneOf("LOG_LEVEL", c.LogLevel, supportedLogLevels,
		fmt.Sprintf("remove the setting to use the default of %q", DefaultLogLevel)); err != nil {
		errs.Add(*err)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateRequired(errs *ConfigurationErrorCollection, key, value, suggestion string) {
	if strings.TrimSpace(value) != "" {
		return
	}
	errs.Add(ConfigurationError{
		Key:         key,
		ErrorType:   "missing",
		Message:     "is required",
		Suggestions: []string{suggestion},
	})
}

func validateOneOf(key, value string, allowed []string, suggestion string) *ConfigurationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ConfigurationError{
		Key:         key,
		ErrorType:   "invalid",
		Message:     fmt.Sprintf("must be one of: %s, got %q", strings.Join(allowed, ", "), value),
		Suggestions: []string{suggestion},
	}
}
