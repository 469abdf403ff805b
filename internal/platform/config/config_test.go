package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Overland-East-Bay/trip-planner-client/internal/platform/config"
)

var clientEnv = []string{
	"TRIPCTL_CONFIG", "PLANNER_API_URL", "PLANNER_HTTP_TIMEOUT", "TOKEN_STORE",
	"TOKEN_STORE_PATH", "DATABASE_URL", "TOKEN_KEY", "SPEECH_LANG", "PAGE_SIZE",
}

// isolate clears client env vars and points the user config dir at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range clientEnv {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadClientConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.LoadClientConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, config.TokenStoreSQLite, cfg.TokenStore)
	assert.Equal(t, filepath.Join(dir, "tripctl", "tokens.db"), cfg.TokenStorePath)
	assert.Equal(t, config.DefaultTokenKey, cfg.TokenKey)
	assert.Equal(t, "zh-CN", cfg.SpeechLang)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Zero(t, cfg.PageSize)
}

func TestLoadClientConfig_FileThenEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TRIPCTL_CONFIG", writeConfig(t, `
api_url: https://planner.example.com/api
http_timeout: 15s
token_store: memory
token_key: planner_token
page_size: 20
`))
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("SPEECH_LANG", "en-US")

	cfg, err := config.LoadClientConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://planner.example.com/api", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, config.TokenStoreMemory, cfg.TokenStore)
	assert.Empty(t, cfg.TokenStorePath)
	assert.Equal(t, "planner_token", cfg.TokenKey)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "en-US", cfg.SpeechLang)
}

func TestLoadClientConfig_DefaultFileLocation(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tripctl"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tripctl", "config.yaml"), []byte("token_store: memory\n"), 0o600))

	cfg, err := config.LoadClientConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, config.TokenStoreMemory, cfg.TokenStore)
}

func TestLoadClientConfig_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	t.Setenv("TRIPCTL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.LoadClientConfigFromEnv()
	require.Error(t, err)
}

func TestLoadClientConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad timeout":       {"PLANNER_HTTP_TIMEOUT": "soon"},
		"negative timeout":  {"PLANNER_HTTP_TIMEOUT": "-1s"},
		"bad page size":     {"PAGE_SIZE": "ten"},
		"relative url":      {"PLANNER_API_URL": "/api"},
		"unknown store":     {"TOKEN_STORE": "redis"},
		"postgres sans dsn": {"TOKEN_STORE": "postgres"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.LoadClientConfigFromEnv()
			require.Error(t, err)
		})
	}
}

func TestLoadClientConfig_MalformedFile(t *testing.T) {
	isolate(t)
	t.Setenv("TRIPCTL_CONFIG", writeConfig(t, "api_url: [unterminated\n"))

	_, err := config.LoadClientConfigFromEnv()
	require.Error(t, err)
}

func TestLoadStubConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STUB_ISSUER", "")
	t.Setenv("STUB_AUDIENCE", "")
	t.Setenv("STUB_TTL", "")
	t.Setenv("STUB_IDEMPOTENCY_TTL", "")

	cfg, err := config.LoadStubConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)

	t.Setenv("PORT", "9001")
	t.Setenv("STUB_TTL", "2m")
	cfg, err = config.LoadStubConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.TokenTTL)

	t.Setenv("STUB_TTL", "0s")
	_, err = config.LoadStubConfigFromEnv()
	require.Error(t, err)

	t.Setenv("STUB_TTL", "")
	t.Setenv("STUB_IDEMPOTENCY_TTL", "forever")
	_, err = config.LoadStubConfigFromEnv()
	require.Error(t, err)
}
