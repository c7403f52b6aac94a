package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amribhatt/pega/pkg/logging"

	"github.com/spf13/viper"
)

// Setting names. They are read from the dotenv file and from the process
// environment; environment values win.
const (
	KeyBaseURL               = "PEGA_BASE_URL"
	KeyClientID              = "PEGA_CLIENT_ID"
	KeyClientSecret          = "PEGA_CLIENT_SECRET"
	KeyAppAlias              = "APP_ALIAS"
	KeyAPIBasePath           = "API_BASE_PATH"
	KeyTokenPath             = "OAUTH2_TOKEN_URL"
	KeyVerifySSL             = "VERIFY_SSL"
	KeyMaxConcurrentRequests = "MAX_CONCURRENT_REQUESTS"
	KeyRequestTimeout        = "REQUEST_TIMEOUT"
	KeyServerHost            = "MCP_SERVER_HOST"
	KeyServerPort            = "MCP_SERVER_PORT"
	KeyTransport             = "MCP_TRANSPORT"
	KeyMetricsEnabled        = "METRICS_ENABLED"
	KeyDedupeTokenRefresh    = "DEDUPE_TOKEN_REFRESH"
	KeyLogLevel              = "LOG_LEVEL"
)

// Unprefixed aliases accepted for the platform settings.
var keyAliases = map[string]string{
	KeyBaseURL:      "BASE_URL",
	KeyClientID:     "CLIENT_ID",
	KeyClientSecret: "CLIENT_SECRET",
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// EnvFile is the dotenv file to read. Empty means DefaultEnvFile.
	EnvFile string
	// EnvFileRequired makes a missing EnvFile an error instead of being skipped.
	EnvFileRequired bool
}

// Load builds the configuration from defaults, the dotenv file and the process
// environment, in increasing order of precedence. It does not validate; call
// Validate or IsConfigured on the result.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path := opts.EnvFile
	if path == "" {
		path = DefaultEnvFile
	}

	envFile, err := readEnvFile(v, path, opts.EnvFileRequired)
	if err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	cfg := fromViper(v)
	cfg.EnvFile = envFile
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	v.SetDefault(key(KeyAPIBasePath), d.APIBasePath)
	v.SetDefault(key(KeyTokenPath), d.TokenPath)
	v.SetDefault(key(KeyVerifySSL), d.VerifySSL)
	v.SetDefault(key(KeyMaxConcurrentRequests), d.MaxConcurrentRequests)
	v.SetDefault(key(KeyRequestTimeout), d.RequestTimeout)
	v.SetDefault(key(KeyServerHost), d.Server.Host)
	v.SetDefault(key(KeyServerPort), d.Server.Port)
	v.SetDefault(key(KeyTransport), d.Server.Transport)
	v.SetDefault(key(KeyMetricsEnabled), d.Metrics.Enabled)
	v.SetDefault(key(KeyDedupeTokenRefresh), d.DedupeTokenRefresh)
	v.SetDefault(key(KeyLogLevel), d.LogLevel)
}

// readEnvFile merges a dotenv file into v. It returns the path that was read,
// or "" when the file is absent and not required.
func readEnvFile(v *viper.Viper, path string, required bool) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			logging.Debug("Config", "No env file at %s, using environment only", path)
			return "", nil
		}
		return "", ConfigurationError{
			Key:         path,
			Source:      "file",
			ErrorType:   "io",
			Message:     "cannot read env file",
			Details:     err.Error(),
			Suggestions: []string{"run 'pega-mcp setup' to create it", "or pass --env-file with the correct path"},
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	logging.Info("Config", "Loaded settings from %s", path)
	return path, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := GetDefaultConfig()

	cfg.BaseURL = strings.TrimRight(lookup(v, KeyBaseURL), "/")
	cfg.ClientID = lookup(v, KeyClientID)
	cfg.ClientSecret = lookup(v, KeyClientSecret)
	cfg.AppAlias = strings.TrimSpace(v.GetString(key(KeyAppAlias)))
	cfg.APIBasePath = v.GetString(key(KeyAPIBasePath))
	cfg.TokenPath = v.GetString(key(KeyTokenPath))
	cfg.VerifySSL = v.GetBool(key(KeyVerifySSL))
	cfg.MaxConcurrentRequests = v.GetInt(key(KeyMaxConcurrentRequests))
	cfg.RequestTimeout = v.GetInt(key(KeyRequestTimeout))
	cfg.DedupeTokenRefresh = v.GetBool(key(KeyDedupeTokenRefresh))
	cfg.Server.Host = v.GetString(key(KeyServerHost))
	cfg.Server.Port = v.GetInt(key(KeyServerPort))
	cfg.Server.Transport = strings.ToLower(v.GetString(key(KeyTransport)))
	cfg.Metrics.Enabled = v.GetBool(key(KeyMetricsEnabled))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(v.GetString(key(KeyLogLevel))))

	return &cfg
}

// lookup returns the value of name, falling back to its unprefixed alias.
func lookup(v *viper.Viper, name string) string {
	if val := strings.TrimSpace(v.GetString(key(name))); val != "" {
		return val
	}
	if alias, ok := keyAliases[name]; ok {
		return strings.TrimSpace(v.GetString(key(alias)))
	}
	return ""
}

// key converts a setting name to viper's lower-case key form. AutomaticEnv
// upper-cases it again for the environment lookup.
func key(name string) string {
	return strings.ToLower(name)
}
