package config

const (
	// DefaultAPIBasePath is the Pega DX application API path.
	DefaultAPIBasePath = "/prweb/app/{app_alias}/api/application/v2"

	// DefaultTokenPath is the Pega OAuth2 token endpoint path.
	DefaultTokenPath = "/prweb/PRRestService/oauth2/v1/token"

	// DefaultEnvFile is read when no --env-file is given.
	DefaultEnvFile = ".env"

	DefaultRequestTimeout        = 30
	DefaultMaxConcurrentRequests = 10
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultMetricsPath           = "/metrics"
	DefaultLogLevel              = "info"
)

// GetDefaultConfig returns the configuration used before any file or
// environment values are applied.
func GetDefaultConfig() Config {
	return Config{
		APIBasePath:           DefaultAPIBasePath,
		TokenPath:             DefaultTokenPath,
		VerifySSL:             true,
		MaxConcurrentRequests: DefaultMaxConcurrentRequests,
		RequestTimeout:        DefaultRequestTimeout,
		LogLevel:              DefaultLogLevel,
		Server: ServerConfig{
			Host:      DefaultServerHost,
			Port:      DefaultServerPort,
			Transport: MCPTransportStreamableHTTP,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
	}
}
