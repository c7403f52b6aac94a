package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/pega"
	"github.com/amribhatt/pega/internal/server"
	"github.com/amribhatt/pega/internal/testing/mock"
)

// fakeTarget answers tool and resource calls from maps.
type fakeTarget struct {
	tools     map[string]string
	toolErrs  map[string]bool
	resources map[string]string
	err       error
	created   []string
}

func (f *fakeTarget) CallToolText(_ context.Context, name string, args map[string]interface{}) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	if name == server.ToolCreateCase {
		f.created = append(f.created, args["case_type_id"].(string))
	}
	return f.tools[name], f.toolErrs[name], nil
}

func (f *fakeTarget) ReadResourceText(_ context.Context, uri string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.resources[uri], nil
}

func healthyTarget() *fakeTarget {
	return &fakeTarget{
		tools: map[string]string{
			server.ToolVerifyConnectivity: "Connected to Pega successfully in 10.0ms",
			server.ToolGetCaseTypes:       "Found 2 case types:\n  1. Home Loan (ID: H-1)\n  2. Auto Loan (ID: H-2)",
			server.ToolCreateCase:         "Case created successfully with ID: C-1",
		},
		toolErrs: map[string]bool{},
		resources: map[string]string{
			server.ResourceCaseTypes:        "Available Case Types:\n- Home Loan (H-1)\n",
			server.ResourceConnectionStatus: "Connected to Pega\nResponse Time: 10.0ms\nStatus: Ready for requests",
		},
	}
}

func configured() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.BaseURL = "https://pega.example.com"
	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"
	cfg.AppAlias = "LoanApp"
	return &cfg
}

func quiet() RunnerOptions {
	return RunnerOptions{Quiet: true, Progress: io.Discard}
}

func TestRunner_AllPass(t *testing.T) {
	target := healthyTarget()
	report := NewRunner(configured(), target, quiet()).Run(context.Background())

	require.Len(t, report.Results, 6)
	names := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		names = append(names, r.Name)
		assert.True(t, r.Passed(), "%s: %s", r.Name, r.Message)
	}
	assert.Equal(t, []string{
		CheckConfiguration, CheckConnectivity, CheckGetCaseTypes,
		CheckCreateCase, CheckCaseTypesResource, CheckConnectionStatusResource,
	}, names)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 6, report.Passed)
	assert.Zero(t, report.Failed)
	assert.InDelta(t, 100.0, report.SuccessRate, 0.001)
	assert.True(t, report.AllPassed())

	assert.Equal(t, []string{"H-1"}, target.created, "first listed case type is used")
	assert.Equal(t, "PEGA_BASE_URL: https://pega.example.com, APP_ALIAS: LoanApp", report.Results[0].Details)
	assert.Equal(t, "Resource length: 40 characters", report.Results[4].Details)
}

func TestRunner_Unconfigured(t *testing.T) {
	cfg := configured()
	cfg.ClientSecret = ""
	cfg.AppAlias = ""

	report := NewRunner(cfg, healthyTarget(), quiet()).Run(context.Background())

	result := report.Results[0]
	assert.False(t, result.Passed())
	assert.Equal(t, "Configuration is incomplete", result.Message)
	assert.Equal(t, "Missing required values. PEGA_BASE_URL: true, PEGA_CLIENT_ID: true, PEGA_CLIENT_SECRET: false, APP_ALIAS: false", result.Details)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.AllPassed())
}

func TestRunner_NoCaseTypes(t *testing.T) {
	target := healthyTarget()
	target.tools[server.ToolGetCaseTypes] = "No case types found"

	report := NewRunner(configured(), target, quiet()).Run(context.Background())

	assert.True(t, report.Results[2].Passed())
	assert.Equal(t, "No case types found (this might be expected)", report.Results[2].Message)
	assert.False(t, report.Results[3].Passed())
	assert.Equal(t, "Cannot test case creation without available case types", report.Results[3].Message)
	assert.Empty(t, target.created)
	assert.InDelta(t, 83.3, report.SuccessRate, 0.1)
}

func TestRunner_ToolErrors(t *testing.T) {
	target := healthyTarget()
	target.tools[server.ToolVerifyConnectivity] = "Connection error: cannot connect to Pega: connection refused"
	target.toolErrs[server.ToolVerifyConnectivity] = true
	target.tools[server.ToolCreateCase] = "Failed to create case: HTTP 400: Invalid case type"
	target.toolErrs[server.ToolCreateCase] = true

	report := NewRunner(configured(), target, quiet()).Run(context.Background())

	assert.False(t, report.Results[1].Passed())
	assert.Equal(t, "Failed to connect to Pega Platform", report.Results[1].Message)
	assert.Contains(t, report.Results[1].Details, "connection refused")
	assert.False(t, report.Results[3].Passed())
	assert.Equal(t, "Failed to create case", report.Results[3].Message)
	assert.Equal(t, 2, report.Failed)
}

func TestRunner_TransportError(t *testing.T) {
	target := healthyTarget()
	target.err = errors.New("tool call failed: EOF")

	report := NewRunner(configured(), target, quiet()).Run(context.Background())

	assert.True(t, report.Results[0].Passed(), "configuration is checked locally")
	for _, r := range report.Results[1:] {
		assert.False(t, r.Passed(), r.Name)
	}
	assert.Equal(t, 5, report.Failed)
}

func TestRunner_EmptyResource(t *testing.T) {
	target := healthyTarget()
	target.resources[server.ResourceConnectionStatus] = ""

	report := NewRunner(configured(), target, quiet()).Run(context.Background())

	assert.False(t, report.Results[5].Passed())
	assert.Equal(t, "Connection status resource returned empty or invalid data", report.Results[5].Message)
}

func TestFirstCaseTypeID(t *testing.T) {
	tests := map[string]string{
		"Found 2 case types:\n  1. Home Loan (ID: H-1)\n  2. Auto Loan (ID: H-2)": "H-1",
		"Found 1 case types:\n  1. Odd (ID:   X-9  )":                             "X-9",
		"Found 1 case types:\n  1. Empty (ID: )\n  2. Next (ID: N-2)":             "N-2",
		"No case types found": "",
		"":                    "",
	}

	for listing, want := range tests {
		assert.Equal(t, want, FirstCaseTypeID(listing), listing)
	}
}

func localConfig(srv *mock.PegaServer) config.Config {
	cfg := config.GetDefaultConfig()
	cfg.BaseURL = srv.URL()
	cfg.ClientID = srv.ClientID()
	cfg.ClientSecret = srv.ClientSecret()
	cfg.AppAlias = srv.AppAlias()
	cfg.RequestTimeout = 5
	return cfg
}

func connectLocal(t *testing.T, cfg *config.Config) Target {
	t.Helper()
	client, err := ConnectLocal(context.Background(), cfg, pega.NewClient(cfg), "test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestConnectLocal_EndToEnd(t *testing.T) {
	srv := mock.NewPegaServer(mock.PegaServerConfig{
		CaseTypes:     []map[string]any{{"name": "Home Loan", "ID": "H-1"}},
		CreatedCaseID: "C-42",
	})
	defer srv.Close()

	cfg := localConfig(srv)
	target := connectLocal(t, &cfg)
	report := NewRunner(&cfg, target, quiet()).Run(context.Background())

	for _, r := range report.Results {
		assert.True(t, r.Passed(), "%s: %s (%s)", r.Name, r.Message, r.Details)
	}
	assert.Equal(t, "H-1", srv.LastCaseTypeID())
	assert.Contains(t, report.Results[3].Details, "C-42")
}

func TestConnectLocal_Failures(t *testing.T) {
	srv := mock.NewPegaServer(mock.PegaServerConfig{})
	defer srv.Close()
	srv.SetCaseTypesResponse(http.StatusInternalServerError, "")

	cfg := localConfig(srv)
	target := connectLocal(t, &cfg)
	ctx := context.Background()

	text, isError, err := target.CallToolText(ctx, server.ToolGetCaseTypes, nil)
	require.NoError(t, err)
	assert.True(t, isError)
	assert.Contains(t, text, "Failed to get case types: HTTP 500")

	_, isError, err = target.CallToolText(ctx, server.ToolCreateCase, map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, isError)

	_, _, err = target.CallToolText(ctx, "no_such_tool", nil)
	assert.Error(t, err)

	status, err := target.ReadResourceText(ctx, server.ResourceConnectionStatus)
	require.NoError(t, err)
	assert.Contains(t, status, "Connection Error")

	_, err = target.ReadResourceText(ctx, "pega://nothing")
	assert.Error(t, err)
}

func TestConnectLocal_UsesServerArgumentHandling(t *testing.T) {
	srv := mock.NewPegaServer(mock.PegaServerConfig{CreatedCaseID: "C-7"})
	defer srv.Close()

	cfg := localConfig(srv)
	target := connectLocal(t, &cfg)
	ctx := context.Background()

	text, isError, err := target.CallToolText(ctx, server.ToolCreateCase, map[string]interface{}{"case_type_id": "   "})
	require.NoError(t, err)
	assert.True(t, isError)
	assert.Equal(t, "case_type_id must not be empty", text)
	assert.Equal(t, 0, srv.CreateCaseRequests())

	text, isError, err = target.CallToolText(ctx, server.ToolCreateCase, map[string]interface{}{"case_type_id": "  H-1\t"})
	require.NoError(t, err)
	assert.False(t, isError, text)
	assert.Contains(t, text, "C-7")
	assert.Equal(t, "H-1", srv.LastCaseTypeID())
}
