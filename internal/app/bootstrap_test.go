package app

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/pkg/logging"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.KeyBaseURL, config.KeyClientID, config.KeyClientSecret, config.KeyAppAlias,
		config.KeyServerHost, config.KeyServerPort, config.KeyTransport, config.KeyMetricsEnabled,
		config.KeyLogLevel, "BASE_URL", "CLIENT_ID", "CLIENT_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const configuredEnv = `PEGA_BASE_URL=https://pega.example.com
PEGA_CLIENT_ID=client
PEGA_CLIENT_SECRET=secret
APP_ALIAS=LoanApp
METRICS_ENABLED=true
`

func TestNewApplication_NotConfigured(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PEGA_BASE_URL=https://pega.example.com\n")

	_, err := newApplication(NewConfig(false, path), "test", io.Discard)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Equal(t, "Missing configuration. Check your env file.", err.Error())
}

func TestNewApplication_WiresServices(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, configuredEnv)

	application, err := newApplication(NewConfig(true, path), "1.2.3", io.Discard)
	require.NoError(t, err)

	services := application.Services()
	assert.NotNil(t, services.Metrics)
	assert.NotNil(t, services.Pega)
	assert.NotNil(t, services.Server)
	assert.Equal(t, "LoanApp", application.PegaConfig().AppAlias)
}

func TestNewApplication_Overrides(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, configuredEnv)

	cfg := NewConfig(false, path)
	cfg.Transport = config.MCPTransportSSE
	cfg.Host = "127.0.0.1"
	cfg.Port = 9090

	application, err := newApplication(cfg, "test", io.Discard)
	require.NoError(t, err)

	server := application.PegaConfig().Server
	assert.Equal(t, config.MCPTransportSSE, server.Transport)
	assert.Equal(t, "127.0.0.1", server.Host)
	assert.Equal(t, 9090, server.Port)
}

func TestNewApplication_InvalidTransport(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, configuredEnv)

	cfg := NewConfig(false, path)
	cfg.Transport = "carrier-pigeon"

	_, err := newApplication(cfg, "test", io.Discard)

	var errs config.ConfigurationErrorCollection
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, []string{"MCP_TRANSPORT"}, errs.Keys())
}

func TestNewApplication_LogLevelFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, configuredEnv+"LOG_LEVEL=ERROR\n")
	var buf bytes.Buffer

	_, err := newApplication(NewConfig(false, path), "test", &buf)
	require.NoError(t, err)

	logging.Warn("Test", "hidden warning")
	logging.Error("Test", nil, "visible error")
	assert.NotContains(t, buf.String(), "hidden warning")
	assert.Contains(t, buf.String(), "visible error")
}

func TestNewApplication_DebugFlagOverridesLogLevel(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, configuredEnv+"LOG_LEVEL=error\n")
	var buf bytes.Buffer

	_, err := newApplication(NewConfig(true, path), "test", &buf)
	require.NoError(t, err)

	logging.Debug("Test", "debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestNewApplication_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, configuredEnv+"LOG_LEVEL=chatty\n")

	_, err := newApplication(NewConfig(false, path), "test", io.Discard)

	var errs config.ConfigurationErrorCollection
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, []string{"LOG_LEVEL"}, errs.Keys())
}

func TestNewApplication_EnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.KeyBaseURL, "https://pega.example.com")
	t.Setenv(config.KeyClientID, "client")
	t.Setenv(config.KeyClientSecret, "secret")
	t.Setenv(config.KeyAppAlias, "LoanApp")

	application, err := newApplication(NewConfig(false, filepath.Join(t.TempDir(), "absent.env")), "test", io.Discard)
	require.NoError(t, err)
	assert.NotNil(t, application.Services().Metrics, "metrics are on by default")
}
