package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		configPathEnv, providerEnv, modelEnv, apiKeyEnv, baseURLEnv,
		serverAddrEnv, logLevelEnv, openAIKeyEnv, deepseekKeyEnv, googleKeyEnv,
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err = Load("")
	require.Error(t, err)
}

func TestLoadFileOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-file
pipeline:
  context_window: 800
  halt_on_error: true
server:
  request_timeout: 90s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 800, cfg.Pipeline.ContextWindow)
	assert.Equal(t, 4000, cfg.Pipeline.PolishInputLimit)
	assert.True(t, cfg.Pipeline.HaltOnError)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFromConfigEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, writeConfig(t, "llm:\n  provider: mock\n"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "llm:\n  provider: openai\n  model: gpt-4o-mini\n")
	t.Setenv(providerEnv, "deepseek")
	t.Setenv(modelEnv, "deepseek-chat")
	t.Setenv(baseURLEnv, "https://api.deepseek.com/v1")
	t.Setenv(deepseekKeyEnv, "sk-deep")
	t.Setenv(serverAddrEnv, ":9090")
	t.Setenv(logLevelEnv, "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, "deepseek-chat", cfg.LLM.Model)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "sk-deep", cfg.LLM.APIKey)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestResolveAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv(googleKeyEnv, "g-key")
	t.Setenv(openAIKeyEnv, "o-key")

	cfg := Default()
	cfg.ResolveAPIKey()
	assert.Equal(t, "g-key", cfg.LLM.APIKey)

	cfg.LLM.Provider = "openai"
	cfg.ResolveAPIKey()
	assert.Equal(t, "g-key", cfg.LLM.APIKey, "explicit key is kept")

	cfg.LLM.APIKey = ""
	cfg.ResolveAPIKey()
	assert.Equal(t, "o-key", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "claude" }},
		{name: "zero context window", mutate: func(c *Config) { c.Pipeline.ContextWindow = 0 }},
		{name: "negative polish limit", mutate: func(c *Config) { c.Pipeline.PolishInputLimit = -1 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.RequestTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "llm: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
