package setup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amribhatt/pega/internal/config"
)

// scriptedPrompter answers prompts from a fixed list and records them.
type scriptedPrompter struct {
	answers []string
	prompts []string
	secrets []string
}

func (p *scriptedPrompter) next(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", ErrCancelled
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) Ask(prompt string) (string, error) { return p.next(prompt) }

func (p *scriptedPrompter) AskSecret(prompt string) (string, error) {
	p.secrets = append(p.secrets, prompt)
	return p.next(prompt)
}

func (p *scriptedPrompter) Close() error { return nil }

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.KeyBaseURL, config.KeyClientID, config.KeyClientSecret, config.KeyAppAlias,
		config.KeyServerHost, config.KeyServerPort, "BASE_URL", "CLIENT_ID", "CLIENT_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestRun_WritesEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	p := &scriptedPrompter{answers: []string{
		"https://pega.example.com/", "my-client", "s3cr3t$#x", "LoanApp",
	}}
	var out bytes.Buffer

	written, err := Run(p, Options{EnvFile: path, Out: &out})

	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, []string{"OAuth Client Secret: "}, p.secrets, "only the secret is masked")
	assert.Contains(t, out.String(), "created")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := config.Load(config.LoadOptions{EnvFile: path, EnvFileRequired: true})
	require.NoError(t, err)
	assert.Equal(t, "https://pega.example.com", cfg.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "my-client", cfg.ClientID)
	assert.Equal(t, "s3cr3t$#x", cfg.ClientSecret)
	assert.Equal(t, "LoanApp", cfg.AppAlias)
	assert.Equal(t, config.DefaultAPIBasePath, cfg.APIBasePath)
	assert.Equal(t, config.DefaultTokenPath, cfg.TokenPath)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.True(t, cfg.IsConfigured())
}

func TestRun_RetriesRequiredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	p := &scriptedPrompter{answers: []string{
		"", "https://pega.example.com", "id", "secret", "", "App",
	}}
	var out bytes.Buffer

	written, err := Run(p, Options{EnvFile: path, Out: &out})

	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("Required field!")))
}

func TestRun_GivesUpAfterRepeatedEmptyAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	p := &scriptedPrompter{answers: []string{"", "", ""}}

	_, err := Run(p, Options{EnvFile: path, Out: &bytes.Buffer{}})

	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestRun_ExistingFile(t *testing.T) {
	tests := []struct {
		name        string
		force       bool
		answers     []string
		wantWritten bool
	}{
		{"declined", false, []string{"n"}, false},
		{"default is no", false, []string{""}, false},
		{"accepted", false, []string{"y", "https://p", "id", "secret", "App"}, true},
		{"forced", true, []string{"https://p", "id", "secret", "App"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			require.NoError(t, os.WriteFile(path, []byte("PEGA_BASE_URL=https://old\n"), 0o600))

			written, err := Run(&scriptedPrompter{answers: tt.answers}, Options{EnvFile: path, Force: tt.force, Out: &bytes.Buffer{}})

			require.NoError(t, err)
			assert.Equal(t, tt.wantWritten, written)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			if tt.wantWritten {
				assert.Contains(t, string(data), "PEGA_BASE_URL=https://p\n")
			} else {
				assert.Equal(t, "PEGA_BASE_URL=https://old\n", string(data))
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	_, err := Run(&scriptedPrompter{answers: []string{"https://p"}}, Options{EnvFile: path, Out: &bytes.Buffer{}})

	assert.ErrorIs(t, err, ErrCancelled)
	assert.NoFileExists(t, path)
}

func TestRenderEnv(t *testing.T) {
	env := RenderEnv(Answers{
		BaseURL:      "https://pega.example.com",
		ClientID:     "id",
		ClientSecret: "it's a secret",
		AppAlias:     "App",
	})

	assert.Contains(t, env, "PEGA_BASE_URL=https://pega.example.com\n")
	assert.Contains(t, env, `PEGA_CLIENT_SECRET="it's a secret"`+"\n")
	assert.Contains(t, env, "API_BASE_PATH=/prweb/app/{app_alias}/api/application/v2\n")
	assert.Contains(t, env, "OAUTH2_TOKEN_URL=/prweb/PRRestService/oauth2/v1/token\n")
	assert.Contains(t, env, "VERIFY_SSL=true\n")
	assert.Contains(t, env, "REQUEST_TIMEOUT=30\n")
	assert.Contains(t, env, "MCP_SERVER_PORT=8080\n")
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "plain", quote("plain"))
	assert.Equal(t, "'a b'", quote("a b"))
	assert.Equal(t, "'$HOME'", quote("$HOME"))
	assert.Equal(t, `"it's"`, quote("it's"))
}
