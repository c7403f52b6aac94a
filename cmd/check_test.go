package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amribhatt/pega/internal/cli"
	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/pega"
	"github.com/amribhatt/pega/internal/server"
	"github.com/amribhatt/pega/internal/testing/mock"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.KeyBaseURL, config.KeyClientID, config.KeyClientSecret, config.KeyAppAlias,
		config.KeyServerHost, config.KeyServerPort, config.KeyTransport, config.KeyLogLevel,
		"BASE_URL", "CLIENT_ID", "CLIENT_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func newPega(t *testing.T) *mock.PegaServer {
	t.Helper()
	srv := mock.NewPegaServer(mock.PegaServerConfig{
		CaseTypes:     []map[string]any{{"name": "Home Loan", "ID": "H-1"}},
		CreatedCaseID: "C-7",
	})
	t.Cleanup(srv.Close)
	return srv
}

func envFileFor(t *testing.T, srv *mock.PegaServer) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	content := fmt.Sprintf("PEGA_BASE_URL=%s\nPEGA_CLIENT_ID=%s\nPEGA_CLIENT_SECRET=%s\nAPP_ALIAS=%s\nREQUEST_TIMEOUT=5\n",
		srv.URL(), srv.ClientID(), srv.ClientSecret(), srv.AppAlias())
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExecuteCheck_Local(t *testing.T) {
	clearEnv(t)
	srv := newPega(t)

	var out bytes.Buffer
	err := executeCheck(context.Background(), checkOptions{
		EnvFile:  envFileFor(t, srv),
		Local:    true,
		Format:   "json",
		Quiet:    true,
		Out:      &out,
		Progress: io.Discard,
	})
	require.NoError(t, err)

	var report cli.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 6, report.Passed)
	assert.Equal(t, "H-1", srv.LastCaseTypeID())
}

func TestExecuteCheck_Remote(t *testing.T) {
	clearEnv(t)
	srv := newPega(t)
	path := envFileFor(t, srv)

	cfg, err := config.Load(config.LoadOptions{EnvFile: path})
	require.NoError(t, err)
	mcpServer := server.New(cfg, pega.NewClient(cfg))
	httpServer := httptest.NewServer(mcpServer.Handler())
	defer httpServer.Close()

	var out bytes.Buffer
	err = executeCheck(context.Background(), checkOptions{
		EnvFile:  path,
		Endpoint: httpServer.URL + "/mcp",
		Format:   "table",
		Quiet:    true,
		Version:  "test",
		Out:      &out,
		Progress: io.Discard,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "All tests passed!")
	assert.Contains(t, out.String(), "Success Rate: 100.0%")
	assert.Equal(t, 1, srv.CreateCaseRequests())
}

func TestExecuteCheck_FailuresSetExitCode(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	var out bytes.Buffer
	err := executeCheck(context.Background(), checkOptions{
		EnvFile:  path,
		Local:    true,
		Format:   "yaml",
		Quiet:    true,
		Out:      &out,
		Progress: io.Discard,
	})

	var failed *checksFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 6, failed.total)
	assert.Equal(t, ExitCodeChecksFailed, getExitCode(err))
	assert.Contains(t, out.String(), "status: FAIL")
}

func TestExecuteCheck_ConnectFailure(t *testing.T) {
	clearEnv(t)
	httpServer := httptest.NewServer(nil)
	endpoint := httpServer.URL + "/mcp"
	httpServer.Close()

	err := executeCheck(context.Background(), checkOptions{
		EnvFile:  filepath.Join(t.TempDir(), "absent.env"),
		Endpoint: endpoint,
		Format:   "table",
		Quiet:    true,
		Out:      io.Discard,
		Progress: io.Discard,
	})
	require.Error(t, err)

	rendered := cli.RenderError(err)
	assert.Contains(t, rendered, "Failed to connect to the pega-mcp server at "+endpoint)
	assert.Contains(t, rendered, "pega-mcp check --local")
}

func TestExecuteCheck_InvalidFormat(t *testing.T) {
	err := executeCheck(context.Background(), checkOptions{Format: "xml", Out: io.Discard})
	assert.ErrorContains(t, err, `unsupported output format "xml"`)
}
