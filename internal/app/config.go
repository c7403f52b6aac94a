package app

// Config holds the options of a serve invocation. Zero values leave the
// loaded configuration untouched.
type Config struct {
	// Debug enables debug logging.
	Debug bool

	// EnvFile is the dotenv file to load. Empty means config.DefaultEnvFile.
	EnvFile string

	// Overrides for the transport settings from the env file.
	Transport string
	Host      string
	Port      int
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, envFile string) *Config {
	return &Config{
		Debug:   debug,
		EnvFile: envFile,
	}
}
