package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against a mock-provider config.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"ACE_CONFIG", "ACE_LLM_PROVIDER", "ACE_LLM_MODEL", "ACE_LLM_API_KEY", "ACE_LLM_BASE_URL", "ACE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: mock\nlog:\n  level: error\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		provider = ""
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ace dev\n", out)
}

func TestIdeas(t *testing.T) {
	out, err := execute(t, "ideas", "--niche", "Robotics")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1. The Beginner's Map"))
	assert.Contains(t, out, "\n3. ")
}

func TestRunWritesKit(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "ace_article.md")
	htmlPath := filepath.Join(dir, "ace_article.html")

	out, err := execute(t, "run", "--niche", "Robotics", "--audience", "Teachers", "--out", mdPath, "--html", htmlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "# Robotics for Teachers")
	assert.Contains(t, out, "\n\n---\n\n## Keywords")
	assert.Contains(t, out, "Cover art: https://image.pollinations.ai/prompt/")

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# Robotics for Teachers\n\n## Introduction"))

	page, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Robotics for Teachers</title>")
	assert.Contains(t, string(page), "<h2>Introduction</h2>")
}

func TestUnknownProviderFlag(t *testing.T) {
	_, err := execute(t, "--provider", "claude", "ideas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm.provider")
}
